package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedUploads(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []UploadEntry{
		{File: "a.md", UserID: "alice", Source: "markdown_chat", Status: StatusSuccess, MemoryCount: 3, CreatedAt: base},
		{File: "b.txt", UserID: "alice", Source: "plain_text", Status: StatusError, Error: "file too large", CreatedAt: base.Add(time.Minute)},
		{File: "c.json", UserID: "bob", Source: "json_chat", Status: StatusSuccess, MemoryCount: 1, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, entry := range entries {
		require.NoError(t, store.RecordUpload(ctx, entry))
	}
}

func TestRecentUploadsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	seedUploads(t, store)

	recent, err := store.RecentUploads(context.Background(), "alice", 10)
	require.NoError(t, err)

	require.Len(t, recent, 2)
	assert.Equal(t, "b.txt", recent[0].File)
	assert.Equal(t, "a.md", recent[1].File)
	assert.NotEmpty(t, recent[0].ID)
	assert.Equal(t, "file too large", recent[0].Error)
	assert.Equal(t, 3, recent[1].MemoryCount)
}

func TestRecentUploadsHonorsLimit(t *testing.T) {
	store := newTestStore(t)
	seedUploads(t, store)

	recent, err := store.RecentUploads(context.Background(), "alice", 1)
	require.NoError(t, err)

	require.Len(t, recent, 1)
	assert.Equal(t, "b.txt", recent[0].File)
}

func TestCountByStatus(t *testing.T) {
	store := newTestStore(t)
	seedUploads(t, store)

	counts, err := store.CountByStatus(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{StatusSuccess: 1, StatusError: 1}, counts)

	counts, err = store.CountByStatus(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, counts)
}
