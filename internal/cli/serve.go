package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/agents"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/classifier"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/config"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/gateway"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/llm"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/logging"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/orchestrator"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the orchestrator server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Deployment secrets may live in a local .env file.
			_ = godotenv.Load()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Server.Port = port
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			// The config file controls logging unless the flag overrode it.
			if logLevel == "" || cfg.Logging.ConsoleStyle == "json" {
				level := cfg.Logging.Level
				if logLevel != "" {
					level = logLevel
				}
				if cfg.Logging.ConsoleStyle == "json" {
					log = logging.NewJSON(nil, level)
				} else {
					log = logging.New(nil, level)
				}
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("creating data directories: %w", err)
			}

			db, err := store.Open(paths.DatabasePath(cfg.Store), log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()

			var sessions orchestrator.SessionStore
			if cfg.Session.Store == "memory" {
				sessions = orchestrator.NewMemorySessionStore(orchestrator.EvictionPolicy{
					MaxEntries: cfg.Session.MaxEntries,
					TTL:        time.Duration(cfg.Session.TTLMinutes) * time.Minute,
				})
				log.Info().Msg("using in-memory session store")
			} else {
				sessions = store.NewSQLiteSessionStore(db)
				log.Info().Msg("using SQLite session store")
			}

			registry := llm.NewRegistryFromConfig(cfg.LLM, log)
			if len(registry.List()) == 0 {
				return fmt.Errorf("no LLM provider configured, set llm.apiKey")
			}

			cls := classifier.New(registry, cfg.LLM.Model, cfg.Chat.HistoryTurns, log)
			agentReg := agents.NewRegistryFromConfig(cfg.Agents, log)
			general := agents.NewGeneralBot(registry, cfg.LLM.Model, log)

			orch := orchestrator.New(
				orchestrator.Config{ConfidenceThreshold: cfg.Chat.ConfidenceThreshold},
				sessions,
				cls,
				agentReg,
				general,
				store.NewTaskLog(db),
				log,
			)

			srv := gateway.New(cfg.Server, orch, log)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}
