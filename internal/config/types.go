package config

// Config is the root configuration for the nexus orchestrator.
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	LLM     LLMConfig     `yaml:"llm,omitempty"`
	Agents  AgentsConfig  `yaml:"agents,omitempty"`
	Chat    ChatConfig    `yaml:"chat,omitempty"`
	Session SessionConfig `yaml:"session,omitempty"`
	Store   StoreConfig   `yaml:"store,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// ServerConfig controls the orchestrator HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port,omitempty"`
	Bind           string   `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string   `yaml:"customBindHost,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// LLMConfig selects and configures the completion provider.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"` // "gemini" | "claude"
	APIKey   string `yaml:"apiKey,omitempty"`   // supports ${ENV_VAR} references
	Model    string `yaml:"model,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"` // override base URL (tests, proxies)
}

// AgentsConfig holds the downstream agent handler endpoints.
type AgentsConfig struct {
	ConnectorURL   string `yaml:"connectorUrl,omitempty"`
	AnalystURL     string `yaml:"analystUrl,omitempty"`
	CuratorURL     string `yaml:"curatorUrl,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"`
}

// ChatConfig tunes the BamaBot chat pipeline. The confidence threshold and
// history window were hard-coded in earlier revisions; both are configuration
// surface now.
type ChatConfig struct {
	ConfidenceThreshold float64 `yaml:"confidenceThreshold,omitempty"`
	HistoryTurns        int     `yaml:"historyTurns,omitempty"`
}

// SessionConfig selects the session store backend and its eviction policy.
type SessionConfig struct {
	Store      string `yaml:"store,omitempty"` // "sqlite" | "memory"
	MaxEntries int    `yaml:"maxEntries,omitempty"`
	TTLMinutes int    `yaml:"ttlMinutes,omitempty"`
}

// StoreConfig configures the durable SQLite database.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"` // defaults to <base>/data/nexus.db
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}
