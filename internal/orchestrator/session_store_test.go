package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
)

func TestMemoryStore_CreateGeneratesID(t *testing.T) {
	s := NewMemorySessionStore(EvictionPolicy{})

	sess, err := s.Create("user-1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "user-1", sess.UserID)
}

func TestMemoryStore_CreateIsIdempotent(t *testing.T) {
	s := NewMemorySessionStore(EvictionPolicy{})

	first, err := s.Create("user-1", "sess-1")
	require.NoError(t, err)
	require.NoError(t, s.Append("sess-1", domain.ContextEntry{Source: domain.SourceUser, Message: "hi"}))

	again, err := s.Create("user-1", "sess-1")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Len(t, again.Entries, 1)
}

func TestMemoryStore_AppendUnknownSession(t *testing.T) {
	s := NewMemorySessionStore(EvictionPolicy{})
	err := s.Append("ghost", domain.ContextEntry{Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMemoryStore_AppendPreservesOrder(t *testing.T) {
	s := NewMemorySessionStore(EvictionPolicy{})
	_, err := s.Create("u", "s1")
	require.NoError(t, err)

	for _, msg := range []string{"a", "b", "c"} {
		require.NoError(t, s.Append("s1", domain.ContextEntry{Source: domain.SourceUser, Message: msg}))
	}

	history := s.History("s1", 0)
	require.Len(t, history, 3)
	assert.Equal(t, "a", history[0].Message)
	assert.Equal(t, "c", history[2].Message)
}

func TestMemoryStore_HistoryWindow(t *testing.T) {
	s := NewMemorySessionStore(EvictionPolicy{})
	_, err := s.Create("u", "s1")
	require.NoError(t, err)

	for _, msg := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.Append("s1", domain.ContextEntry{Message: msg}))
	}

	history := s.History("s1", 2)
	require.Len(t, history, 2)
	assert.Equal(t, "c", history[0].Message)
	assert.Equal(t, "d", history[1].Message)

	assert.Nil(t, s.History("ghost", 2))
}

func TestMemoryStore_MaxEntriesEviction(t *testing.T) {
	s := NewMemorySessionStore(EvictionPolicy{MaxEntries: 3})
	_, err := s.Create("u", "s1")
	require.NoError(t, err)

	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.Append("s1", domain.ContextEntry{Message: msg}))
	}

	history := s.History("s1", 0)
	require.Len(t, history, 3)
	assert.Equal(t, "c", history[0].Message)
	assert.Equal(t, "e", history[2].Message)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	s := NewMemorySessionStore(EvictionPolicy{TTL: 10 * time.Minute})
	s.now = func() time.Time { return now }

	_, err := s.Create("u", "s1")
	require.NoError(t, err)
	require.NoError(t, s.Append("s1", domain.ContextEntry{Message: "hi"}))

	// Still alive just inside the TTL.
	now = now.Add(9 * time.Minute)
	_, ok := s.Get("s1")
	assert.True(t, ok)

	now = now.Add(5 * time.Minute)
	_, ok = s.Get("s1")
	assert.False(t, ok)
	assert.ErrorIs(t, s.Append("s1", domain.ContextEntry{Message: "late"}), domain.ErrSessionNotFound)
	assert.Empty(t, s.List())

	// Creating the same id after expiry starts a fresh session.
	fresh, err := s.Create("u", "s1")
	require.NoError(t, err)
	assert.Empty(t, fresh.Entries)
}

func TestMemoryStore_List(t *testing.T) {
	s := NewMemorySessionStore(EvictionPolicy{})
	_, _ = s.Create("u", "s1")
	_, _ = s.Create("u", "s2")

	ids := s.List()
	assert.ElementsMatch(t, []string{"s1", "s2"}, ids)
}

func TestMemoryStore_AppendStampsTimestamp(t *testing.T) {
	s := NewMemorySessionStore(EvictionPolicy{})
	_, err := s.Create("u", "s1")
	require.NoError(t, err)

	require.NoError(t, s.Append("s1", domain.ContextEntry{Message: "hi"}))
	history := s.History("s1", 0)
	require.Len(t, history, 1)
	assert.False(t, history[0].Timestamp.IsZero())
}
