package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/agents"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/config"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/llm"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/version"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show nexus status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("nexus %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Printf("Config:  error loading: %v\n", err)
				return nil
			}

			fmt.Printf("Server:  port=%d bind=%s\n", cfg.Server.Port, cfg.Server.Bind)
			fmt.Printf("Session: store=%s maxEntries=%d ttl=%dm\n",
				cfg.Session.Store, cfg.Session.MaxEntries, cfg.Session.TTLMinutes)
			fmt.Printf("Chat:    threshold=%.2f historyTurns=%d\n",
				cfg.Chat.ConfidenceThreshold, cfg.Chat.HistoryTurns)

			registry := llm.NewRegistryFromConfig(cfg.LLM, log)
			providers := registry.List()
			if len(providers) > 0 {
				fmt.Printf("LLM:     %s (model=%s)\n", strings.Join(providers, ", "), cfg.LLM.Model)
			} else {
				fmt.Println("LLM:     (none configured)")
			}

			agentReg := agents.NewRegistryFromConfig(cfg.Agents, log)
			handlers := agentReg.List()
			if len(handlers) > 0 {
				fmt.Printf("Agents:  %s\n", strings.Join(handlers, ", "))
			} else {
				fmt.Println("Agents:  (none configured)")
			}

			if issues := config.Validate(&cfg); len(issues) > 0 {
				fmt.Println()
				fmt.Printf("Validation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s\n", issue)
				}
			}

			return nil
		},
	}

	return cmd
}
