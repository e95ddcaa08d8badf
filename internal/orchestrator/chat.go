package orchestrator

import (
	"context"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/agents"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/classifier"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
)

// ChatResponse is the blended textual + structured result of one chat turn.
type ChatResponse struct {
	Agent         string         `json:"agent"`
	TextResponse  string         `json:"textResponse"`
	SessionID     string         `json:"sessionId"`
	Intent        string         `json:"intent"`
	SuggestedTask string         `json:"suggestedTask"`
	Confidence    float64        `json:"confidence"`
	DelegatedTo   string         `json:"delegatedTo,omitempty"`
	TaskData      map[string]any `json:"taskData,omitempty"`
}

// Chat processes one BamaBot turn: ensure session, classify against recent
// history, optionally delegate to a specialized agent, and record both the
// user and bot turns as context entries.
//
// Per-turn states: received → classified → {delegation-skipped | delegating →
// delegated-ok | delegated-error} → context-recorded → responded. Nothing is
// retried; the terminal state is always responded.
func (o *Orchestrator) Chat(ctx context.Context, req domain.TaskRequest) (*ChatResponse, error) {
	queryText, _ := req.Payload["queryText"].(string)
	if queryText == "" {
		return nil, domain.BadRequest("bamabot_chat requires payload.queryText")
	}

	// Unknown session ids lazily create the session.
	sess, err := o.sessions.Create(req.UserID, req.SessionID)
	if err != nil {
		return nil, err
	}

	history := o.sessions.History(sess.ID, o.classifier.HistoryTurns())

	result, err := o.classifier.Classify(ctx, classifier.Request{
		SessionID: sess.ID,
		UserID:    req.UserID,
		QueryText: queryText,
		History:   history,
	})
	if err != nil {
		return nil, err
	}

	cls := result.Classification
	reply := result.Reply
	delegatedTo := ""
	var taskData map[string]any

	if cls.SuggestedTask != domain.TaskNone && cls.Confidence > o.cfg.ConfidenceThreshold {
		task, known := LookupChatTask(cls.SuggestedTask)
		switch {
		case !known:
			o.log.Warn().
				Str("sessionId", sess.ID).
				Str("suggestedTask", cls.SuggestedTask).
				Msg("classifier suggested an unmapped task, skipping delegation")

		case len(task.MissingSlots(cls.Entities)) > 0:
			// Missing required entities: skip delegation and replace the
			// reply with the task's clarifying question.
			reply = task.Clarify

		default:
			handler, rerr := o.agents.Resolve(task.Agent)
			if rerr != nil {
				reply += apologeticNote(task.Agent)
				break
			}

			res, ierr := handler.Invoke(ctx, agents.Request{
				Task:          task.Name,
				Payload:       task.BuildPayload(cls.Entities),
				ClientContext: req.ClientContext,
				SessionID:     sess.ID,
			})
			if ierr != nil {
				o.log.Warn().Err(ierr).
					Str("sessionId", sess.ID).
					Str("agent", task.Agent).
					Msg("delegated handler failed")
				reply += apologeticNote(task.Agent)
			} else {
				reply = task.Format(res.Data)
				delegatedTo = task.Agent
				taskData = res.Data
			}
		}
	}

	// Record both turns; the user entry freezes the full classification.
	userEntry := domain.ContextEntry{
		Source:   domain.SourceUser,
		Intent:   cls.Intent,
		Message:  queryText,
		Entities: cls.Entities,
		Metadata: map[string]any{
			"classification": cls,
			"clientContext":  req.ClientContext,
		},
		UserID: req.UserID,
	}
	if aerr := o.sessions.Append(sess.ID, userEntry); aerr != nil {
		return nil, aerr
	}

	botEntry := domain.ContextEntry{
		Source:  domain.SourceBamaBot,
		Intent:  cls.Intent,
		Message: reply,
		Metadata: map[string]any{
			"delegatedTo":   delegatedTo,
			"suggestedTask": cls.SuggestedTask,
			"confidence":    cls.Confidence,
		},
	}
	if aerr := o.sessions.Append(sess.ID, botEntry); aerr != nil {
		return nil, aerr
	}

	return &ChatResponse{
		Agent:         domain.AgentBamaBot,
		TextResponse:  reply,
		SessionID:     sess.ID,
		Intent:        cls.Intent,
		SuggestedTask: cls.SuggestedTask,
		Confidence:    cls.Confidence,
		DelegatedTo:   delegatedTo,
		TaskData:      taskData,
	}, nil
}
