package agents

import (
	"context"
	"fmt"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/llm"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/logging"
)

const generalPersona = `You are the BAMA AI Nexus general assistant. Answer questions
about the Alabama technology ecosystem, its companies, and its regional markets.
Be concise and factual.`

// GeneralBot answers general_query tasks with a direct LLM completion,
// without session context or delegation.
type GeneralBot struct {
	registry *llm.Registry
	model    string
	log      *logging.Logger
}

// NewGeneralBot creates the general query handler.
func NewGeneralBot(registry *llm.Registry, model string, log *logging.Logger) *GeneralBot {
	return &GeneralBot{
		registry: registry,
		model:    model,
		log:      log.Sub("agents.general"),
	}
}

// Name returns the agent name.
func (g *GeneralBot) Name() string { return domain.AgentGeneralBot }

// Invoke answers the payload's queryText with a single completion.
func (g *GeneralBot) Invoke(ctx context.Context, req Request) (*Result, error) {
	queryText, _ := req.Payload["queryText"].(string)
	if queryText == "" {
		return nil, domain.BadRequest("general_query requires payload.queryText")
	}

	client, err := g.registry.Resolve(g.model)
	if err != nil {
		return nil, err
	}

	resp, err := client.Complete(ctx, llm.CompletionRequest{
		Model:  g.model,
		System: generalPersona,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: queryText},
		},
		MaxTokens: 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("general query completion: %w", err)
	}

	g.log.Debug().Str("sessionId", req.SessionID).Msg("general query answered")

	return &Result{
		Agent: domain.AgentGeneralBot,
		Data: map[string]any{
			"agent":        domain.AgentGeneralBot,
			"textResponse": resp.Content,
			"model":        resp.Model,
		},
	}, nil
}
