// Package gateway exposes the orchestrator over HTTP: the single JSON task
// endpoint, a health probe, and a WebSocket chat bridge.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/config"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/logging"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/orchestrator"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/version"
)

// Server is the nexus orchestrator HTTP server.
type Server struct {
	cfg        config.ServerConfig
	orch       *orchestrator.Orchestrator
	log        *logging.Logger
	startedAt  time.Time
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// New creates a gateway server fronting the given orchestrator.
func New(cfg config.ServerConfig, orch *orchestrator.Orchestrator, log *logging.Logger) *Server {
	allowedOrigins := cfg.AllowedOrigins
	return &Server{
		cfg:  cfg,
		orch: orch,
		log:  log.Sub("gateway"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true // same-origin or non-browser clients
				}
				return isOriginAllowed(origin, allowedOrigins)
			},
		},
	}
}

// Router builds the chi route tree with the standard middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware(s.log))
	r.Use(requestIDMiddleware)
	r.Use(corsMiddleware(s.cfg.AllowedOrigins))

	r.Get("/health", s.handleHealth)
	r.Post("/api/orchestrate", s.handleOrchestrate)
	r.Get("/ws", s.handleWebSocket)

	return r
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.ServerConfig) string {
	switch cfg.Bind {
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening for HTTP connections. It blocks until the context
// is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // LLM calls can run long
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.startedAt = time.Now()
	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Bind).
		Msg("orchestrator server starting")

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down orchestrator server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
	Uptime   string `json:"uptime,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	uptime := ""
	if !s.startedAt.IsZero() {
		uptime = time.Since(s.startedAt).Round(time.Second).String()
	}
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Version:  version.Version,
		Sessions: len(s.orch.Sessions().List()),
		Uptime:   uptime,
	})
}
