package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create sessions and context entries",
		SQL: `
			CREATE TABLE sessions (
				id          TEXT PRIMARY KEY,
				user_id     TEXT NOT NULL DEFAULT '',
				created_at  TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_sessions_user ON sessions (user_id);

			CREATE TABLE context_entries (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
				source      TEXT NOT NULL,
				intent      TEXT NOT NULL DEFAULT '',
				message     TEXT NOT NULL,
				entities    TEXT,
				metadata    TEXT,
				user_id     TEXT NOT NULL DEFAULT '',
				timestamp   TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_context_entries_session ON context_entries (session_id, id);
		`,
	},
	{
		Version: 2,
		Name:    "create orchestrator task log",
		SQL: `
			CREATE TABLE task_log (
				id              INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id      TEXT NOT NULL,
				user_id         TEXT NOT NULL DEFAULT '',
				task            TEXT NOT NULL,
				payload         TEXT NOT NULL DEFAULT '{}',
				client_context  TEXT NOT NULL DEFAULT '{}',
				status          TEXT NOT NULL DEFAULT 'processing',
				result          TEXT,
				error           TEXT,
				created_at      TEXT NOT NULL DEFAULT (datetime('now')),
				updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_task_log_session ON task_log (session_id, id);
			CREATE INDEX idx_task_log_status ON task_log (status);
		`,
	},
}
