package orchestrator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
)

// SessionStore manages conversation sessions and their context logs.
type SessionStore interface {
	// Create registers a session. A blank sessionID gets a generated one.
	// Creating an id that already exists returns the existing session.
	Create(userID, sessionID string) (*domain.Session, error)

	// Get returns a session by id.
	Get(sessionID string) (*domain.Session, bool)

	// Append adds a context entry to a session's log. Appending to an
	// unknown session fails with domain.ErrSessionNotFound.
	Append(sessionID string, entry domain.ContextEntry) error

	// History returns the most recent maxTurns entries in chronological
	// order. maxTurns of 0 returns everything.
	History(sessionID string, maxTurns int) []domain.ContextEntry

	// List returns all session ids.
	List() []string
}

// EvictionPolicy bounds per-session growth for the in-memory store.
// MaxEntries drops the oldest entries at append time; TTL expires whole
// sessions, swept lazily on access. Zero values disable the respective bound.
type EvictionPolicy struct {
	MaxEntries int
	TTL        time.Duration
}

// MemorySessionStore is a mutex-guarded in-memory SessionStore.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	policy   EvictionPolicy
	now      func() time.Time
}

// NewMemorySessionStore creates an in-memory session store with the given
// eviction policy.
func NewMemorySessionStore(policy EvictionPolicy) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*domain.Session),
		policy:   policy,
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Create(userID, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok && !s.expired(sess) {
		return sess, nil
	}

	now := s.now()
	sess := &domain.Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[sessionID] = sess
	return sess, nil
}

func (s *MemorySessionStore) Get(sessionID string) (*domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	if s.expired(sess) {
		delete(s.sessions, sessionID)
		return nil, false
	}
	return sess, true
}

func (s *MemorySessionStore) Append(sessionID string, entry domain.ContextEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || s.expired(sess) {
		delete(s.sessions, sessionID)
		return domain.ErrSessionNotFound
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	sess.Entries = append(sess.Entries, entry)
	sess.UpdatedAt = s.now()

	if max := s.policy.MaxEntries; max > 0 && len(sess.Entries) > max {
		sess.Entries = sess.Entries[len(sess.Entries)-max:]
	}
	return nil
}

func (s *MemorySessionStore) History(sessionID string, maxTurns int) []domain.ContextEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok || s.expired(sess) {
		return nil
	}

	entries := sess.Entries
	if maxTurns > 0 && len(entries) > maxTurns {
		entries = entries[len(entries)-maxTurns:]
	}

	out := make([]domain.ContextEntry, len(entries))
	copy(out, entries)
	return out
}

func (s *MemorySessionStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id, sess := range s.sessions {
		if s.expired(sess) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (s *MemorySessionStore) expired(sess *domain.Session) bool {
	if s.policy.TTL <= 0 {
		return false
	}
	return s.now().Sub(sess.UpdatedAt) > s.policy.TTL
}
