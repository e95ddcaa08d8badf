package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
)

// SQLiteSessionStore implements orchestrator.SessionStore backed by SQLite,
// so sessions survive process restarts and appends go through the database's
// write serialization rather than an unguarded in-process map.
type SQLiteSessionStore struct {
	db *DB
}

// NewSQLiteSessionStore creates a session store using the given database.
func NewSQLiteSessionStore(db *DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db}
}

// Create registers a session. A blank sessionID gets a generated one.
// Creating an id that already exists returns the existing session unchanged.
// The insert is conflict-tolerant so two racing first requests for the same
// id both land on the one row instead of the loser erroring out.
func (s *SQLiteSessionStore) Create(userID, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	now := time.Now().UTC()
	_, err := s.db.sql.Exec(
		`INSERT INTO sessions (id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		sessionID, userID, now.Format(time.DateTime), now.Format(time.DateTime),
	)
	if err != nil {
		return nil, err
	}

	sess, ok := s.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Get returns a session by id with its entries loaded.
func (s *SQLiteSessionStore) Get(sessionID string) (*domain.Session, bool) {
	var sess domain.Session
	var createdAt, updatedAt string

	err := s.db.sql.QueryRow(
		`SELECT id, user_id, created_at, updated_at FROM sessions WHERE id = ?`, sessionID,
	).Scan(&sess.ID, &sess.UserID, &createdAt, &updatedAt)
	if err != nil {
		return nil, false
	}

	sess.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	sess.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	sess.Entries = s.loadEntries(sessionID, 0)
	return &sess, true
}

// Append adds a context entry to the session's log. Appending to an unknown
// session fails with domain.ErrSessionNotFound.
func (s *SQLiteSessionStore) Append(sessionID string, entry domain.ContextEntry) error {
	var exists int
	if err := s.db.sql.QueryRow(`SELECT COUNT(*) FROM sessions WHERE id = ?`, sessionID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return domain.ErrSessionNotFound
	}

	var entities, metadata sql.NullString
	if len(entry.Entities) > 0 {
		if data, err := json.Marshal(entry.Entities); err == nil {
			entities = sql.NullString{String: string(data), Valid: true}
		}
	}
	if len(entry.Metadata) > 0 {
		if data, err := json.Marshal(entry.Metadata); err == nil {
			metadata = sql.NullString{String: string(data), Valid: true}
		}
	}

	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.sql.Exec(
		`INSERT INTO context_entries (session_id, source, intent, message, entities, metadata, user_id, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, entry.Source, entry.Intent, entry.Message, entities, metadata, entry.UserID,
		ts.Format(time.DateTime),
	)
	if err != nil {
		return err
	}

	_, _ = s.db.sql.Exec(
		`UPDATE sessions SET updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.DateTime), sessionID,
	)
	return nil
}

// History returns the most recent maxTurns entries in chronological order.
// maxTurns of 0 returns everything.
func (s *SQLiteSessionStore) History(sessionID string, maxTurns int) []domain.ContextEntry {
	return s.loadEntries(sessionID, maxTurns)
}

// List returns all session ids, most recently updated first.
func (s *SQLiteSessionStore) List() []string {
	rows, err := s.db.sql.Query(`SELECT id FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (s *SQLiteSessionStore) loadEntries(sessionID string, limit int) []domain.ContextEntry {
	query := `SELECT source, intent, message, entities, metadata, user_id, timestamp
	          FROM context_entries WHERE session_id = ? ORDER BY id`
	args := []any{sessionID}
	if limit > 0 {
		// Take the newest N, then flip back to chronological order below.
		query = `SELECT source, intent, message, entities, metadata, user_id, timestamp FROM (
		           SELECT id, source, intent, message, entities, metadata, user_id, timestamp
		           FROM context_entries WHERE session_id = ? ORDER BY id DESC LIMIT ?
		         ) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := s.db.sql.Query(query, args...)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var entries []domain.ContextEntry
	for rows.Next() {
		var entry domain.ContextEntry
		var entities, metadata sql.NullString
		var ts string

		if err := rows.Scan(&entry.Source, &entry.Intent, &entry.Message, &entities, &metadata, &entry.UserID, &ts); err != nil {
			continue
		}
		entry.Timestamp, _ = time.Parse(time.DateTime, ts)

		if entities.Valid && entities.String != "" {
			_ = json.Unmarshal([]byte(entities.String), &entry.Entities)
		}
		if metadata.Valid && metadata.String != "" {
			_ = json.Unmarshal([]byte(metadata.String), &entry.Metadata)
		}

		entries = append(entries, entry)
	}
	return entries
}
