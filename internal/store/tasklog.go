package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
)

// TaskLog is the durable record of orchestrator task executions. Every valid
// request gets exactly one row: inserted as "processing" before any work,
// updated exactly once to "completed" or "error" afterwards.
type TaskLog struct {
	db *DB
}

// NewTaskLog creates a task log using the given database.
func NewTaskLog(db *DB) *TaskLog {
	return &TaskLog{db: db}
}

// Begin inserts a "processing" row for the request and returns its id.
func (t *TaskLog) Begin(req domain.TaskRequest) (int64, error) {
	payload, err := json.Marshal(req.Payload)
	if err != nil {
		return 0, fmt.Errorf("marshaling payload: %w", err)
	}
	clientCtx, err := json.Marshal(req.ClientContext)
	if err != nil {
		return 0, fmt.Errorf("marshaling client context: %w", err)
	}

	res, err := t.db.sql.Exec(
		`INSERT INTO task_log (session_id, user_id, task, payload, client_context, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.SessionID, req.UserID, req.Task, string(payload), string(clientCtx), domain.StatusProcessing,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting task log row: %w", err)
	}
	return res.LastInsertId()
}

// Complete marks a row completed and attaches the result payload.
func (t *TaskLog) Complete(id int64, result any) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	_, err = t.db.sql.Exec(
		`UPDATE task_log SET status = ?, result = ?, updated_at = ? WHERE id = ?`,
		domain.StatusCompleted, string(data), time.Now().UTC().Format(time.DateTime), id,
	)
	if err != nil {
		return fmt.Errorf("completing task log row %d: %w", id, err)
	}
	return nil
}

// Fail marks a row errored with the failure message.
func (t *TaskLog) Fail(id int64, message string) error {
	_, err := t.db.sql.Exec(
		`UPDATE task_log SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		domain.StatusError, message, time.Now().UTC().Format(time.DateTime), id,
	)
	if err != nil {
		return fmt.Errorf("failing task log row %d: %w", id, err)
	}
	return nil
}

// Get returns a single record by id, or nil if not found.
func (t *TaskLog) Get(id int64) (*domain.TaskLogRecord, error) {
	row := t.db.sql.QueryRow(
		`SELECT id, session_id, user_id, task, payload, client_context, status, result, error, created_at, updated_at
		 FROM task_log WHERE id = ?`, id,
	)
	rec, err := scanTaskLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// BySession returns all records for a session, oldest first.
func (t *TaskLog) BySession(sessionID string) ([]domain.TaskLogRecord, error) {
	rows, err := t.db.sql.Query(
		`SELECT id, session_id, user_id, task, payload, client_context, status, result, error, created_at, updated_at
		 FROM task_log WHERE session_id = ? ORDER BY id`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.TaskLogRecord
	for rows.Next() {
		rec, err := scanTaskLog(rows)
		if err != nil {
			continue
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTaskLog(row rowScanner) (*domain.TaskLogRecord, error) {
	var rec domain.TaskLogRecord
	var result, errMsg sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(
		&rec.ID, &rec.SessionID, &rec.UserID, &rec.Task, &rec.Payload,
		&rec.ClientContext, &rec.Status, &result, &errMsg, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	rec.Result = result.String
	rec.Error = errMsg.String
	rec.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return &rec, nil
}
