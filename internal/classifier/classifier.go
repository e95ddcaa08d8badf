// Package classifier interprets chat turns: it asks the LLM for a reply and
// a structured classification in a single completion, then splits the two.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/llm"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/logging"
)

// ClassificationMarker separates the user-facing reply from the trailing
// JSON classification block in the model's completion.
const ClassificationMarker = "Classification:"

// fallbackReply is returned when the model's reply portion is empty or
// unrecoverable.
const fallbackReply = "I'm not sure I understood that. Could you tell me a bit more about what you're looking for?"

const persona = `You are BamaBot, the conversational assistant for the BAMA AI Nexus,
a directory of Alabama technology businesses. You help users discover companies,
understand regional markets, and connect with the Alabama tech ecosystem.
Answer conversationally and concretely.`

const classificationInstructions = `After your reply, on a new line, append the literal marker
"Classification:" followed by a single JSON object with these fields:
  "intent": short label for what the user wants,
  "entities": object mapping slot names (industry, location, company_name, query_text_for_semantic_search) to values,
  "suggested_next_task": one of "connector_find_and_score_businesses", "analyst_market_analysis", "curator_enrich_company", or "none",
  "confidence_score": number between 0 and 1.`

// Request carries one user turn into classification.
type Request struct {
	SessionID string
	UserID    string
	QueryText string
	History   []domain.ContextEntry
}

// Result is the blended outcome of a classification call: the user-facing
// reply text plus the structured interpretation.
type Result struct {
	Reply          string
	Classification domain.Classification
	Prompt         string // the prompt that was sent, frozen into entry metadata
}

// Classifier turns user messages into replies plus intent classifications.
type Classifier struct {
	registry     *llm.Registry
	model        string
	historyTurns int
	log          *logging.Logger
}

// New creates a classifier. historyTurns bounds how many recent context
// entries are rendered into each prompt.
func New(registry *llm.Registry, model string, historyTurns int, log *logging.Logger) *Classifier {
	if historyTurns <= 0 {
		historyTurns = 5
	}
	return &Classifier{
		registry:     registry,
		model:        model,
		historyTurns: historyTurns,
		log:          log.Sub("classifier"),
	}
}

// HistoryTurns returns the configured prompt history window.
func (c *Classifier) HistoryTurns() int { return c.historyTurns }

// Classify performs one completion call and parses the dual-format response.
// Parse failures degrade to the fallback classification and never surface as
// errors; provider failures propagate to the caller.
func (c *Classifier) Classify(ctx context.Context, req Request) (*Result, error) {
	client, err := c.registry.Resolve(c.model)
	if err != nil {
		return nil, err
	}

	prompt := c.buildPrompt(req)

	resp, err := client.Complete(ctx, llm.CompletionRequest{
		Model:  c.model,
		System: persona,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens: 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("classification completion: %w", err)
	}

	reply, classification := ParseResponse(resp.Content)
	if classification.Intent == domain.IntentClarificationNeeded {
		c.log.Debug().
			Str("sessionId", req.SessionID).
			Msg("classification block unparseable, using fallback")
	}

	c.log.Info().
		Str("sessionId", req.SessionID).
		Str("intent", classification.Intent).
		Str("suggestedTask", classification.SuggestedTask).
		Float64("confidence", classification.Confidence).
		Msg("turn classified")

	return &Result{Reply: reply, Classification: classification, Prompt: prompt}, nil
}

// buildPrompt combines the live query, the rendered recent history, and the
// fixed domain facts into a single completion prompt.
func (c *Classifier) buildPrompt(req Request) string {
	var b strings.Builder

	history := req.History
	if len(history) > c.historyTurns {
		history = history[len(history)-c.historyTurns:]
	}
	if rendered := RenderHistory(history); rendered != "" {
		b.WriteString("Recent conversation:\n")
		b.WriteString(rendered)
		b.WriteString("\n")
	}

	b.WriteString(domainFacts())
	b.WriteString("\n")

	b.WriteString("User message: ")
	b.WriteString(req.QueryText)
	b.WriteString("\n\n")
	b.WriteString(classificationInstructions)

	return b.String()
}

// RenderHistory flattens context entries into role-prefixed lines,
// oldest first, for prompt injection.
func RenderHistory(entries []domain.ContextEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(roleLabel(e.Source))
		b.WriteString(": ")
		b.WriteString(e.Message)
		b.WriteString("\n")
	}
	return b.String()
}

func roleLabel(source string) string {
	switch source {
	case domain.SourceUser:
		return "User"
	case domain.SourceBamaBot:
		return "BamaBot"
	default:
		return source
	}
}

// ParseResponse splits a completion into reply text and classification.
// Everything before the last occurrence of the marker is the reply; the
// trailing text must decode as a classification JSON object. A missing
// marker or malformed JSON yields the fallback classification, with the
// reply text preserved where recoverable.
func ParseResponse(content string) (string, domain.Classification) {
	idx := strings.LastIndex(content, ClassificationMarker)
	if idx < 0 {
		reply := strings.TrimSpace(content)
		if reply == "" {
			reply = fallbackReply
		}
		return reply, domain.FallbackClassification()
	}

	reply := strings.TrimSpace(content[:idx])
	trailer := strings.TrimSpace(content[idx+len(ClassificationMarker):])
	trailer = stripCodeFence(trailer)

	var classification domain.Classification
	if err := json.Unmarshal([]byte(trailer), &classification); err != nil {
		if reply == "" {
			reply = fallbackReply
		}
		return reply, domain.FallbackClassification()
	}

	if classification.SuggestedTask == "" {
		classification.SuggestedTask = domain.TaskNone
	}
	if classification.Entities == nil {
		classification.Entities = domain.Entities{}
	}
	if reply == "" {
		reply = fallbackReply
	}
	return reply, classification
}

// stripCodeFence removes a surrounding markdown code fence, which models
// often wrap JSON blocks in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
