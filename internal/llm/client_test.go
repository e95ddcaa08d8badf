package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/config"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.New(io.Discard, "silent")
}

func TestRegistry_ResolveOrder(t *testing.T) {
	reg := NewRegistry(testLogger())
	gemini := &MockClient{ProviderName: "gemini"}
	claude := &MockClient{ProviderName: "claude"}
	reg.Register("gemini", gemini)
	reg.Register("claude", claude)
	reg.Alias("gemini-1.5-flash", "gemini")
	reg.SetFallback("claude")

	// Exact provider name
	c, err := reg.Resolve("gemini")
	require.NoError(t, err)
	assert.Equal(t, "gemini", c.Name())

	// Alias
	c, err = reg.Resolve("gemini-1.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "gemini", c.Name())

	// Fallback
	c, err = reg.Resolve("some-unknown-model")
	require.NoError(t, err)
	assert.Equal(t, "claude", c.Name())
}

func TestRegistry_ResolveEmpty(t *testing.T) {
	reg := NewRegistry(testLogger())
	_, err := reg.Resolve("gemini")
	assert.Error(t, err)
}

func TestNewRegistryFromConfig_NoKeyRegistersNothing(t *testing.T) {
	reg := NewRegistryFromConfig(config.LLMConfig{Provider: "gemini"}, testLogger())
	assert.Empty(t, reg.List())
}

func TestNewRegistryFromConfig_Gemini(t *testing.T) {
	reg := NewRegistryFromConfig(config.LLMConfig{
		Provider: "gemini",
		APIKey:   "key",
		Model:    "gemini-1.5-flash",
	}, testLogger())

	assert.ElementsMatch(t, []string{"gemini"}, reg.List())
	c, err := reg.Resolve("gemini-1.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "gemini", c.Name())
}

func TestGeminiClient_Complete(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content":      map[string]any{"parts": []any{map[string]any{"text": "howdy"}}},
				"finishReason": "STOP",
			}},
			"usageMetadata": map[string]any{"promptTokenCount": 10, "candidatesTokenCount": 2},
		})
	}))
	defer srv.Close()

	c := NewGeminiClient("key", "gemini-1.5-flash", srv.URL)
	resp, err := c.Complete(context.Background(), CompletionRequest{
		System:    "be brief",
		Messages:  []Message{{Role: RoleUser, Content: "hello"}},
		MaxTokens: 256,
	})
	require.NoError(t, err)

	assert.Equal(t, "howdy", resp.Content)
	assert.Equal(t, "STOP", resp.StopReason)
	assert.Equal(t, 10, resp.Usage.InputTokens)
	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)

	contents := gotBody["contents"].([]any)
	part := contents[0].(map[string]any)["parts"].([]any)[0].(map[string]any)
	assert.Contains(t, part["text"], "System: be brief")
	assert.Contains(t, part["text"], "hello")
}

func TestGeminiClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":"quota"}`)
	}))
	defer srv.Close()

	c := NewGeminiClient("key", "gemini-1.5-flash", srv.URL)
	_, err := c.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	require.Error(t, err)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "gemini", pe.Provider)
	assert.Equal(t, http.StatusTooManyRequests, pe.Code)
}

func TestClaudeClient_Complete(t *testing.T) {
	var gotVersion, gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.Header.Get("anthropic-version")
		gotKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"content":     []any{map[string]any{"type": "text", "text": "hi there"}},
			"stop_reason": "end_turn",
			"model":       "claude-3-5-haiku",
			"usage":       map[string]any{"input_tokens": 5, "output_tokens": 3},
		})
	}))
	defer srv.Close()

	c := NewClaudeClient("sk-test", "claude-3-5-haiku", srv.URL)
	resp, err := c.Complete(context.Background(), CompletionRequest{
		System:   "be brief",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "hi there", resp.Content)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, "sk-test", gotKey)
	assert.NotEmpty(t, gotVersion)
	assert.Equal(t, "be brief", gotBody["system"])
	// MaxTokens of 0 defaults
	assert.Equal(t, float64(1024), gotBody["max_tokens"])
}

func TestProviderError_Error(t *testing.T) {
	withCode := &ProviderError{Provider: "gemini", Code: 429, Message: "quota"}
	assert.Equal(t, "gemini: 429 quota", withCode.Error())

	withoutCode := &ProviderError{Provider: "claude", Message: "down"}
	assert.Equal(t, "claude: down", withoutCode.Error())
}
