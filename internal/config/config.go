package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           8787,
			Bind:           "loopback",
			AllowedOrigins: []string{"*"},
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-1.5-flash",
		},
		Agents: AgentsConfig{
			TimeoutSeconds: 30,
		},
		Chat: ChatConfig{
			ConfidenceThreshold: 0.6,
			HistoryTurns:        5,
		},
		Session: SessionConfig{
			Store:      "sqlite",
			MaxEntries: 200,
			TTLMinutes: 120,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}

// applyDefaults fills zero-valued fields after YAML unmarshal, so a partial
// config file does not wipe out defaults.
func applyDefaults(cfg *Config) {
	def := Defaults()

	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.Bind == "" {
		cfg.Server.Bind = def.Server.Bind
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = def.Server.AllowedOrigins
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = def.LLM.Provider
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.Agents.TimeoutSeconds == 0 {
		cfg.Agents.TimeoutSeconds = def.Agents.TimeoutSeconds
	}
	if cfg.Chat.ConfidenceThreshold == 0 {
		cfg.Chat.ConfidenceThreshold = def.Chat.ConfidenceThreshold
	}
	if cfg.Chat.HistoryTurns == 0 {
		cfg.Chat.HistoryTurns = def.Chat.HistoryTurns
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = def.Session.Store
	}
	if cfg.Session.MaxEntries == 0 {
		cfg.Session.MaxEntries = def.Session.MaxEntries
	}
	if cfg.Session.TTLMinutes == 0 {
		cfg.Session.TTLMinutes = def.Session.TTLMinutes
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.ConsoleStyle == "" {
		cfg.Logging.ConsoleStyle = def.Logging.ConsoleStyle
	}
}
