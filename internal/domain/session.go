// Package domain holds the core types shared across the nexus orchestrator.
package domain

import (
	"errors"
	"time"
)

// ErrSessionNotFound is returned when an operation references an unknown session.
var ErrSessionNotFound = errors.New("session not found")

// Context entry sources.
const (
	SourceUser    = "user"
	SourceBamaBot = "bamabot"
)

// Session is a logical conversation thread accumulating context entries.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Entries   []ContextEntry `json:"entries,omitempty"`
}

// ContextEntry is one recorded conversation turn. Entries are append-only
// and strictly ordered by insertion; they are never mutated or deleted.
type ContextEntry struct {
	Source    string         `json:"source"` // "user", "bamabot", or another agent tag
	Intent    string         `json:"intent,omitempty"`
	Message   string         `json:"message"`
	Entities  Entities       `json:"entities,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
