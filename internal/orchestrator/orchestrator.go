// Package orchestrator routes validated task requests: direct agent tasks by
// name prefix, and BamaBot chat turns through classification, confidence
// gating, and conditional delegation.
package orchestrator

import (
	"context"
	"strings"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/agents"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/classifier"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/logging"
)

// TaskLogger is the durable execution log written around every request.
// Implemented by store.TaskLog.
type TaskLogger interface {
	Begin(req domain.TaskRequest) (int64, error)
	Complete(id int64, result any) error
	Fail(id int64, message string) error
}

// Config tunes the orchestrator's chat behavior.
type Config struct {
	// ConfidenceThreshold gates delegation of classifier-suggested tasks.
	ConfidenceThreshold float64
}

// Orchestrator is the session-aware task router.
type Orchestrator struct {
	cfg        Config
	sessions   SessionStore
	classifier *classifier.Classifier
	agents     *agents.Registry
	general    agents.Handler
	tasklog    TaskLogger
	log        *logging.Logger
}

// New creates an orchestrator.
func New(
	cfg Config,
	sessions SessionStore,
	cls *classifier.Classifier,
	registry *agents.Registry,
	general agents.Handler,
	tasklog TaskLogger,
	log *logging.Logger,
) *Orchestrator {
	if cfg.ConfidenceThreshold == 0 {
		cfg.ConfidenceThreshold = 0.6
	}
	return &Orchestrator{
		cfg:        cfg,
		sessions:   sessions,
		classifier: cls,
		agents:     registry,
		general:    general,
		tasklog:    tasklog,
		log:        log.Sub("orchestrator"),
	}
}

// Sessions exposes the session store for status surfaces.
func (o *Orchestrator) Sessions() SessionStore { return o.sessions }

// Execute runs a validated request end to end: it writes the "processing"
// log row before any work, dispatches, and settles the row to "completed" or
// "error" exactly once. The caller wraps the outcome in the envelope.
func (o *Orchestrator) Execute(ctx context.Context, req domain.TaskRequest) (any, error) {
	logID, err := o.tasklog.Begin(req)
	if err != nil {
		return nil, err
	}

	data, err := o.dispatch(ctx, req)
	if err != nil {
		if ferr := o.tasklog.Fail(logID, err.Error()); ferr != nil {
			o.log.Error().Err(ferr).Int64("logId", logID).Msg("failed to settle task log row")
		}
		o.log.Error().Err(err).
			Str("sessionId", req.SessionID).
			Str("task", req.Task).
			Msg("task failed")
		return nil, err
	}

	if cerr := o.tasklog.Complete(logID, data); cerr != nil {
		o.log.Error().Err(cerr).Int64("logId", logID).Msg("failed to settle task log row")
	}
	o.log.Info().
		Str("sessionId", req.SessionID).
		Str("task", req.Task).
		Msg("task completed")
	return data, nil
}

// dispatch routes strictly by task name: chat and general query by literal
// name, agent tasks by prefix. Unknown names are client errors that still
// travel the error path, so they land in the durable log.
func (o *Orchestrator) dispatch(ctx context.Context, req domain.TaskRequest) (any, error) {
	switch {
	case req.Task == domain.TaskBamaBotChat:
		return o.Chat(ctx, req)

	case req.Task == domain.TaskGeneralQuery:
		res, err := o.general.Invoke(ctx, agents.Request{
			Task:          req.Task,
			Payload:       req.Payload,
			ClientContext: req.ClientContext,
			SessionID:     req.SessionID,
		})
		if err != nil {
			return nil, err
		}
		return res.Data, nil

	case strings.HasPrefix(req.Task, domain.TaskPrefixConnector):
		return o.invokeRemote(ctx, domain.AgentConnector, req)

	case strings.HasPrefix(req.Task, domain.TaskPrefixAnalyst):
		return o.invokeRemote(ctx, domain.AgentAnalyst, req)

	case strings.HasPrefix(req.Task, domain.TaskPrefixCurator):
		return o.invokeRemote(ctx, domain.AgentCurator, req)

	default:
		return nil, domain.BadRequest("unknown task %q", req.Task)
	}
}

func (o *Orchestrator) invokeRemote(ctx context.Context, agent string, req domain.TaskRequest) (any, error) {
	handler, err := o.agents.Resolve(agent)
	if err != nil {
		return nil, domain.BadRequest("agent %q is not available", agent)
	}

	res, err := handler.Invoke(ctx, agents.Request{
		Task:          req.Task,
		Payload:       req.Payload,
		ClientContext: req.ClientContext,
		SessionID:     req.SessionID,
	})
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}
