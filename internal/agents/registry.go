package agents

import (
	"fmt"
	"sync"
	"time"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/config"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/logging"
)

// Registry maps agent names to their handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	log      *logging.Logger
}

// NewRegistry creates an empty agent registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		log:      log.Sub("agents.registry"),
	}
}

// Register adds a handler under its own name.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Name()] = h
	r.log.Info().Str("agent", h.Name()).Msg("registered agent handler")
}

// Resolve returns the handler for the given agent name.
func (r *Registry) Resolve(name string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("no handler for agent %q", name)
	}
	return h, nil
}

// List returns all registered agent names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	return names
}

// NewRegistryFromConfig builds a registry of remote handlers from the agents
// config section. Agents without a configured URL are not registered;
// delegation to them fails with a routing error at invoke time.
func NewRegistryFromConfig(cfg config.AgentsConfig, log *logging.Logger) *Registry {
	reg := NewRegistry(log)
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	endpoints := map[string]string{
		domain.AgentConnector: cfg.ConnectorURL,
		domain.AgentAnalyst:   cfg.AnalystURL,
		domain.AgentCurator:   cfg.CuratorURL,
	}
	for name, url := range endpoints {
		if url == "" {
			log.Warn().Str("agent", name).Msg("no endpoint configured, agent disabled")
			continue
		}
		reg.Register(NewRemoteHandler(name, url, timeout, log))
	}
	return reg
}
