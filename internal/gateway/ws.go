package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
)

// wsChatFrame is one inbound chat turn on the WebSocket bridge. Each frame
// runs the same chat pipeline as a bamabot_chat POST; replies reuse the
// standard envelope so dashboard clients share one decoder.
type wsChatFrame struct {
	SessionID string `json:"sessionId,omitempty"`
	UserID    string `json:"userId,omitempty"`
	QueryText string `json:"queryText"`
}

// handleWebSocket upgrades the connection and serves chat turns until the
// client disconnects. A connection without a session id gets one assigned on
// the first turn and keeps it for the connection's lifetime.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(64 * 1024)
	s.log.Debug().Str("remote", r.RemoteAddr).Msg("websocket chat connected")

	sessionID := ""
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			s.log.Debug().Str("remote", r.RemoteAddr).Msg("websocket chat disconnected")
			return
		}

		var frame wsChatFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			env := domain.ErrorEnvelope(sessionID, domain.TaskBamaBotChat,
				domain.BadRequest("invalid chat frame: %v", err))
			if werr := conn.WriteJSON(env); werr != nil {
				return
			}
			continue
		}

		if frame.SessionID != "" {
			sessionID = frame.SessionID
		}
		if sessionID == "" {
			sessionID = uuid.New().String()
		}

		req := domain.TaskRequest{
			SessionID: sessionID,
			UserID:    frame.UserID,
			Task:      domain.TaskBamaBotChat,
			Payload:   map[string]any{"queryText": frame.QueryText},
			ClientContext: map[string]any{
				"clientType": "websocket",
			},
		}

		data, err := s.orch.Execute(r.Context(), req)

		var env domain.Envelope
		if err != nil {
			env = domain.ErrorEnvelope(sessionID, domain.TaskBamaBotChat, err)
		} else {
			env = domain.SuccessEnvelope(sessionID, domain.TaskBamaBotChat, data)
		}
		if werr := conn.WriteJSON(env); werr != nil {
			return
		}
	}
}
