package domain

import "time"

// Envelope is the uniform success/error wrapper returned by the orchestrator
// endpoint. Callers branch solely on the Success boolean; both outcomes share
// the same shape.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	TaskID    string `json:"taskId,omitempty"`
	Timestamp string `json:"timestamp"`
}

// SuccessEnvelope wraps a result payload.
func SuccessEnvelope(sessionID, task string, data any) Envelope {
	return Envelope{
		Success:   true,
		Data:      data,
		SessionID: sessionID,
		TaskID:    task,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorEnvelope wraps a failure.
func ErrorEnvelope(sessionID, task string, err error) Envelope {
	return Envelope{
		Success:   false,
		Error:     err.Error(),
		SessionID: sessionID,
		TaskID:    task,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
