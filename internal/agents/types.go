// Package agents defines the downstream agent handler interface and the
// clients that invoke the specialized connector, analyst, and curator agents.
package agents

import "context"

// Request is the payload sent to a downstream agent handler.
type Request struct {
	Task          string         `json:"task"`
	Payload       map[string]any `json:"payload"`
	ClientContext map[string]any `json:"clientContext,omitempty"`
	SessionID     string         `json:"sessionId,omitempty"`
}

// Result is a successful handler response.
type Result struct {
	Agent string         `json:"agent,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

// Handler is implemented by every downstream agent the orchestrator can
// delegate to, remote or in-process.
type Handler interface {
	// Invoke runs the task and returns its result or a structured error.
	Invoke(ctx context.Context, req Request) (*Result, error)

	// Name returns the agent name ("connector", "analyst", "curator", ...).
	Name() string
}
