package agents

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/config"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/llm"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.New(io.Discard, "silent")
}

func TestRemoteHandler_Success(t *testing.T) {
	var received Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"businesses": []any{}},
		})
	}))
	defer srv.Close()

	h := NewRemoteHandler(domain.AgentConnector, srv.URL, time.Second, testLogger())
	res, err := h.Invoke(context.Background(), Request{
		Task:      "connector_find_and_score_businesses",
		Payload:   map[string]any{"industry": "aerospace"},
		SessionID: "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AgentConnector, res.Agent)
	assert.Contains(t, res.Data, "businesses")

	assert.Equal(t, "connector_find_and_score_businesses", received.Task)
	assert.Equal(t, "aerospace", received.Payload["industry"])
	assert.Equal(t, "s1", received.SessionID)
}

func TestRemoteHandler_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "index rebuilding"})
	}))
	defer srv.Close()

	h := NewRemoteHandler(domain.AgentConnector, srv.URL, time.Second, testLogger())
	_, err := h.Invoke(context.Background(), Request{Task: "connector_x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, domain.StatusOf(err))
	assert.Contains(t, err.Error(), "index rebuilding")
}

func TestRemoteHandler_SuccessFalseWith200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "no results"})
	}))
	defer srv.Close()

	h := NewRemoteHandler(domain.AgentAnalyst, srv.URL, time.Second, testLogger())
	_, err := h.Invoke(context.Background(), Request{Task: "analyst_x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, domain.StatusOf(err))
	assert.Contains(t, err.Error(), "no results")
}

func TestRemoteHandler_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream exploded")
	}))
	defer srv.Close()

	h := NewRemoteHandler(domain.AgentCurator, srv.URL, time.Second, testLogger())
	_, err := h.Invoke(context.Background(), Request{Task: "curator_x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, domain.StatusOf(err))
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestRemoteHandler_TransportError(t *testing.T) {
	h := NewRemoteHandler(domain.AgentConnector, "http://127.0.0.1:1", 200*time.Millisecond, testLogger())
	_, err := h.Invoke(context.Background(), Request{Task: "connector_x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, domain.StatusOf(err))
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	reg := NewRegistry(testLogger())
	_, err := reg.Resolve("connector")
	assert.Error(t, err)
}

func TestNewRegistryFromConfig_SkipsUnsetEndpoints(t *testing.T) {
	reg := NewRegistryFromConfig(config.AgentsConfig{
		ConnectorURL:   "http://localhost:9100/connector",
		TimeoutSeconds: 5,
	}, testLogger())

	assert.ElementsMatch(t, []string{domain.AgentConnector}, reg.List())
	_, err := reg.Resolve(domain.AgentAnalyst)
	assert.Error(t, err)
}

func TestGeneralBot_Invoke(t *testing.T) {
	mock := &llm.MockClient{
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return &llm.CompletionResponse{Content: "Huntsville anchors Alabama aerospace.", Model: "test-model"}, nil
		},
	}
	reg := llm.NewRegistry(testLogger())
	reg.Register("mock", mock)
	reg.SetFallback("mock")

	bot := NewGeneralBot(reg, "test-model", testLogger())
	res, err := bot.Invoke(context.Background(), Request{
		Task:    domain.TaskGeneralQuery,
		Payload: map[string]any{"queryText": "tell me about huntsville"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AgentGeneralBot, res.Data["agent"])
	assert.Equal(t, "Huntsville anchors Alabama aerospace.", res.Data["textResponse"])

	require.Len(t, mock.Requests, 1)
	assert.Equal(t, "tell me about huntsville", mock.Requests[0].Messages[0].Content)
}

func TestGeneralBot_RequiresQueryText(t *testing.T) {
	reg := llm.NewRegistry(testLogger())
	bot := NewGeneralBot(reg, "test-model", testLogger())

	_, err := bot.Invoke(context.Background(), Request{Payload: map[string]any{}})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, domain.StatusOf(err))
}
