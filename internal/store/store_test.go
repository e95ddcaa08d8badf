package store

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
	"github.com/patmode91/bama-ai-nexus-sub001/internal/logging"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", logging.New(io.Discard, "silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func fileDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nexus.db"), logging.New(io.Discard, "silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_ConcurrentWrites(t *testing.T) {
	db := fileDB(t)
	sessions := NewSQLiteSessionStore(db)
	tasklog := NewTaskLog(db)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("sess-%d", i)
			if _, err := sessions.Create("user", id); err != nil {
				errs <- err
				return
			}
			if _, err := tasklog.Begin(domain.TaskRequest{SessionID: id, Task: "general_query"}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent write failed: %v", err)
	}
	assert.Len(t, sessions.List(), 8)
}

func TestSessionStore_ConcurrentCreateSameID(t *testing.T) {
	db := fileDB(t)
	s := NewSQLiteSessionStore(db)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Create("user-1", "shared"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent create failed: %v", err)
	}

	// One row, first writer's identity preserved.
	assert.Equal(t, []string{"shared"}, s.List())
	got, ok := s.Get("shared")
	require.True(t, ok)
	assert.Equal(t, "user-1", got.UserID)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nexus.db")
	log := logging.New(io.Discard, "silent")

	db, err := Open(path, log)
	require.NoError(t, err)
	_, err = NewSQLiteSessionStore(db).Create("user-1", "sess-1")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path, log)
	require.NoError(t, err)
	defer db.Close()

	_, ok := NewSQLiteSessionStore(db).Get("sess-1")
	assert.True(t, ok)
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.migrate())

	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	s := NewSQLiteSessionStore(testDB(t))

	sess, err := s.Create("user-1", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sess.ID)

	got, ok := s.Get("sess-1")
	require.True(t, ok)
	assert.Equal(t, "user-1", got.UserID)

	_, ok = s.Get("ghost")
	assert.False(t, ok)
}

func TestSessionStore_CreateGeneratesID(t *testing.T) {
	s := NewSQLiteSessionStore(testDB(t))

	sess, err := s.Create("user-1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
}

func TestSessionStore_CreateIsIdempotent(t *testing.T) {
	s := NewSQLiteSessionStore(testDB(t))

	_, err := s.Create("user-1", "sess-1")
	require.NoError(t, err)
	require.NoError(t, s.Append("sess-1", domain.ContextEntry{Source: domain.SourceUser, Message: "hi"}))

	again, err := s.Create("user-1", "sess-1")
	require.NoError(t, err)
	assert.Len(t, again.Entries, 1)
}

func TestSessionStore_AppendUnknownSession(t *testing.T) {
	s := NewSQLiteSessionStore(testDB(t))
	err := s.Append("ghost", domain.ContextEntry{Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_EntriesRoundTrip(t *testing.T) {
	s := NewSQLiteSessionStore(testDB(t))
	_, err := s.Create("user-1", "sess-1")
	require.NoError(t, err)

	entry := domain.ContextEntry{
		Source:   domain.SourceUser,
		Intent:   "find_business",
		Message:  "aerospace in huntsville",
		Entities: domain.Entities{"industry": "aerospace", "location": "Huntsville"},
		Metadata: map[string]any{"clientType": "web"},
		UserID:   "user-1",
	}
	require.NoError(t, s.Append("sess-1", entry))

	got, ok := s.Get("sess-1")
	require.True(t, ok)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "find_business", got.Entries[0].Intent)
	assert.Equal(t, "aerospace", got.Entries[0].Entities["industry"])
	assert.Equal(t, "web", got.Entries[0].Metadata["clientType"])
	assert.False(t, got.Entries[0].Timestamp.IsZero())
}

func TestSessionStore_HistoryWindow(t *testing.T) {
	s := NewSQLiteSessionStore(testDB(t))
	_, err := s.Create("u", "s1")
	require.NoError(t, err)

	for _, msg := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.Append("s1", domain.ContextEntry{Source: domain.SourceUser, Message: msg}))
	}

	history := s.History("s1", 2)
	require.Len(t, history, 2)
	assert.Equal(t, "c", history[0].Message)
	assert.Equal(t, "d", history[1].Message)

	all := s.History("s1", 0)
	assert.Len(t, all, 4)
	assert.Equal(t, "a", all[0].Message)
}

func TestSessionStore_List(t *testing.T) {
	s := NewSQLiteSessionStore(testDB(t))
	_, _ = s.Create("u", "s1")
	_, _ = s.Create("u", "s2")

	assert.ElementsMatch(t, []string{"s1", "s2"}, s.List())
}

func TestTaskLog_Lifecycle(t *testing.T) {
	db := testDB(t)
	tl := NewTaskLog(db)

	id, err := tl.Begin(domain.TaskRequest{
		SessionID: "s1",
		UserID:    "user-1",
		Task:      "connector_find_and_score_businesses",
		Payload:   map[string]any{"industry": "aerospace"},
	})
	require.NoError(t, err)

	rec, err := tl.Get(id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.StatusProcessing, rec.Status)
	assert.Contains(t, rec.Payload, "aerospace")

	require.NoError(t, tl.Complete(id, map[string]any{"count": 3}))
	rec, err = tl.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, rec.Status)
	assert.Contains(t, rec.Result, `"count":3`)
}

func TestTaskLog_Fail(t *testing.T) {
	tl := NewTaskLog(testDB(t))

	id, err := tl.Begin(domain.TaskRequest{SessionID: "s1", Task: "analyst_market_analysis"})
	require.NoError(t, err)

	require.NoError(t, tl.Fail(id, "agent unreachable"))
	rec, err := tl.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, rec.Status)
	assert.Equal(t, "agent unreachable", rec.Error)
	assert.Empty(t, rec.Result)
}

func TestTaskLog_GetMissing(t *testing.T) {
	tl := NewTaskLog(testDB(t))
	rec, err := tl.Get(9999)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestTaskLog_BySession(t *testing.T) {
	tl := NewTaskLog(testDB(t))

	first, err := tl.Begin(domain.TaskRequest{SessionID: "s1", Task: "general_query"})
	require.NoError(t, err)
	_, err = tl.Begin(domain.TaskRequest{SessionID: "s2", Task: "general_query"})
	require.NoError(t, err)
	second, err := tl.Begin(domain.TaskRequest{SessionID: "s1", Task: "bamabot_chat"})
	require.NoError(t, err)

	recs, err := tl.BySession("s1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, first, recs[0].ID)
	assert.Equal(t, second, recs[1].ID)
}
