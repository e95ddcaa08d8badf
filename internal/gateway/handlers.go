package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
)

// inboundRequest mirrors the wire shape of an orchestrator invocation.
// Payload stays raw so "present but not an object" is distinguishable.
type inboundRequest struct {
	SessionID     string          `json:"sessionId"`
	UserID        string          `json:"userId,omitempty"`
	Task          string          `json:"task"`
	Payload       json.RawMessage `json:"payload"`
	ClientContext map[string]any  `json:"clientContext,omitempty"`
}

// validate checks the envelope preconditions: sessionId, task, and an
// object-typed payload. Validation failures never reach the durable log.
func (r inboundRequest) validate() (domain.TaskRequest, error) {
	if r.SessionID == "" {
		return domain.TaskRequest{}, domain.BadRequest("sessionId is required")
	}
	if r.Task == "" {
		return domain.TaskRequest{}, domain.BadRequest("task is required")
	}
	if len(r.Payload) == 0 {
		return domain.TaskRequest{}, domain.BadRequest("payload must be a JSON object")
	}

	var payload map[string]any
	if err := json.Unmarshal(r.Payload, &payload); err != nil || payload == nil {
		return domain.TaskRequest{}, domain.BadRequest("payload must be a JSON object")
	}

	return domain.TaskRequest{
		SessionID:     r.SessionID,
		UserID:        r.UserID,
		Task:          r.Task,
		Payload:       payload,
		ClientContext: r.ClientContext,
	}, nil
}

// handleOrchestrate is the single task endpoint. Success and failure share
// the envelope shape; callers branch on the success boolean alone.
func (s *Server) handleOrchestrate(w http.ResponseWriter, r *http.Request) {
	var inbound inboundRequest
	if err := json.NewDecoder(r.Body).Decode(&inbound); err != nil {
		s.writeJSON(w, http.StatusBadRequest,
			domain.ErrorEnvelope("", "", domain.BadRequest("invalid JSON body: %v", err)))
		return
	}

	req, err := inbound.validate()
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, domain.ErrorEnvelope(inbound.SessionID, inbound.Task, err))
		return
	}

	data, err := s.orch.Execute(r.Context(), req)
	if err != nil {
		s.writeJSON(w, domain.StatusOf(err), domain.ErrorEnvelope(req.SessionID, req.Task, err))
		return
	}

	s.writeJSON(w, http.StatusOK, domain.SuccessEnvelope(req.SessionID, req.Task, data))
}

// writeJSON writes a JSON response with the given status code. The header is
// already on the wire if Encode fails, so a failure can only be logged.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Int("status", status).Msg("failed to encode response")
	}
}
