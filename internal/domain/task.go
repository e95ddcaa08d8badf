package domain

import "time"

// Well-known task names and prefixes routed by the orchestrator.
const (
	TaskBamaBotChat  = "bamabot_chat"
	TaskGeneralQuery = "general_query"

	TaskPrefixConnector = "connector_"
	TaskPrefixAnalyst   = "analyst_"
	TaskPrefixCurator   = "curator_"
)

// Downstream agent names.
const (
	AgentConnector  = "connector"
	AgentAnalyst    = "analyst"
	AgentCurator    = "curator"
	AgentGeneralBot = "general_bot"
	AgentBamaBot    = "bamabot"
)

// TaskRequest is the validated inbound request processed by the orchestrator.
type TaskRequest struct {
	SessionID     string         `json:"sessionId"`
	UserID        string         `json:"userId,omitempty"`
	Task          string         `json:"task"`
	Payload       map[string]any `json:"payload"`
	ClientContext map[string]any `json:"clientContext,omitempty"`
}

// Task log statuses. A log record moves from processing to exactly one of
// completed or error.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// TaskLogRecord is the durable execution record kept for every valid request.
type TaskLogRecord struct {
	ID            int64     `json:"id"`
	SessionID     string    `json:"sessionId"`
	UserID        string    `json:"userId,omitempty"`
	Task          string    `json:"task"`
	Payload       string    `json:"payload"`       // JSON
	ClientContext string    `json:"clientContext"` // JSON
	Status        string    `json:"status"`
	Result        string    `json:"result,omitempty"` // JSON on completed
	Error         string    `json:"error,omitempty"`  // message on error
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
