package uploader

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	clog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EternisAI/recollect/pkg/config"
	"github.com/EternisAI/recollect/pkg/db"
	"github.com/EternisAI/recollect/pkg/helpers"
	"github.com/EternisAI/recollect/pkg/mem0"
	"github.com/EternisAI/recollect/pkg/parsing"
)

type fakeBackend struct {
	records []mem0.Record
	err     error
	calls   []mem0.AddOptions
	batches [][]parsing.Message
}

func (f *fakeBackend) Add(_ context.Context, messages []parsing.Message, opts mem0.AddOptions) ([]mem0.Record, error) {
	f.batches = append(f.batches, messages)
	f.calls = append(f.calls, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultUserID:      "alice",
		DefaultExtractMode: "auto",
		BatchSize:          2,
		SupportedFormats:   []string{".md", ".txt", ".json"},
		MaxFileSizeMB:      10,
	}
}

func newTestUploader(backend Backend, cfg *config.Config, journal *db.Store) *Uploader {
	return NewUploader(backend, nil, journal, cfg, clog.New(io.Discard))
}

func TestUploadTextMergesAndSends(t *testing.T) {
	backend := &fakeBackend{records: []mem0.Record{{ID: "m1", Event: "ADD"}}}
	uploader := newTestUploader(backend, testConfig(), nil)

	records, err := uploader.UploadText(context.Background(), "remember the trail map",
		Options{Metadata: map[string]any{"topic": "hiking"}})
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.Len(t, backend.calls, 1)
	call := backend.calls[0]
	assert.Equal(t, "alice", call.UserID, "default user applied")
	assert.Equal(t, "hiking", call.Metadata["topic"])
	assert.Equal(t, "plain_text", call.Metadata["source"])
	assert.Equal(t, "alice", call.Metadata["user_id"])

	require.Len(t, backend.batches[0], 1)
	assert.Equal(t, parsing.Message{Role: parsing.RoleUser, Content: "remember the trail map"}, backend.batches[0][0])
}

func TestUploadTextRejectsEmptyContent(t *testing.T) {
	backend := &fakeBackend{}
	uploader := newTestUploader(backend, testConfig(), nil)

	for _, content := range []string{"", "   \n\t"} {
		_, err := uploader.UploadText(context.Background(), content, Options{})
		var validationErr *mem0.ValidationError
		require.ErrorAs(t, err, &validationErr, "content %q", content)
	}
	assert.Empty(t, backend.calls)
}

func TestUploadTextForwardsTriStateOptions(t *testing.T) {
	backend := &fakeBackend{records: []mem0.Record{{ID: "m1"}}}
	uploader := newTestUploader(backend, testConfig(), nil)

	_, err := uploader.UploadText(context.Background(), "verbatim note", Options{
		ExtractMode: "raw",
		Infer:       helpers.Ptr(false),
	})
	require.NoError(t, err)

	call := backend.calls[0]
	require.NotNil(t, call.Infer)
	assert.False(t, *call.Infer)
	assert.Nil(t, call.CustomInstructions)
	assert.Equal(t, false, call.Metadata["infer"])
	assert.Equal(t, "raw_content", call.Metadata["format"])
}

func TestUploadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.md")
	require.NoError(t, os.WriteFile(path, []byte("**User:** hello\n**Assistant:** hi there"), 0o644))

	backend := &fakeBackend{records: []mem0.Record{{ID: "m1"}, {ID: "m2"}}}
	uploader := newTestUploader(backend, testConfig(), nil)

	records, err := uploader.UploadFile(context.Background(), path, Options{UserID: "bob"})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	require.Len(t, backend.calls, 1)
	assert.Equal(t, "bob", backend.calls[0].UserID)
	assert.Equal(t, "chat.md", backend.calls[0].Metadata["file_name"])
	require.Len(t, backend.batches[0], 2)
	assert.Equal(t, parsing.RoleAssistant, backend.batches[0][1].Role)
}

func TestUploadFileMissing(t *testing.T) {
	backend := &fakeBackend{}
	uploader := newTestUploader(backend, testConfig(), nil)

	_, err := uploader.UploadFile(context.Background(), filepath.Join(t.TempDir(), "nope.md"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Empty(t, backend.calls)
}

func TestUploadFileTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	require.NoError(t, os.WriteFile(path, []byte("a few bytes"), 0o644))

	cfg := testConfig()
	cfg.MaxFileSizeMB = 0
	backend := &fakeBackend{}
	uploader := newTestUploader(backend, cfg, nil)

	_, err := uploader.UploadFile(context.Background(), path, Options{})
	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Empty(t, backend.calls)
}

func TestUploadBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good1 := filepath.Join(dir, "a.txt")
	good2 := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(good1, []byte("first note"), 0o644))
	require.NoError(t, os.WriteFile(good2, []byte("second note"), 0o644))
	missing := filepath.Join(dir, "missing.txt")

	backend := &fakeBackend{records: []mem0.Record{{ID: "m1"}}}
	uploader := newTestUploader(backend, testConfig(), nil)

	results := uploader.UploadBatch(context.Background(), []string{good1, missing, good2}, Options{})

	require.Len(t, results, 3)
	assert.Equal(t, db.StatusSuccess, results[0].Status)
	assert.Equal(t, db.StatusError, results[1].Status)
	assert.Error(t, results[1].Err)
	assert.Equal(t, db.StatusSuccess, results[2].Status)
	assert.Len(t, backend.calls, 2, "failed file never reaches the backend")
}

func TestUploadDirectoryFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("note a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.TXT"), []byte("note b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.pdf"), []byte("binary"), 0o644))
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "d.md"), []byte("note d"), 0o644))

	backend := &fakeBackend{records: []mem0.Record{{ID: "m"}}}
	uploader := newTestUploader(backend, testConfig(), nil)

	flat, err := uploader.UploadDirectory(context.Background(), dir, false, Options{})
	require.NoError(t, err)
	assert.Len(t, flat, 2, "extension match is case-insensitive, subdirectory skipped")

	backend.calls = nil
	recursive, err := uploader.UploadDirectory(context.Background(), dir, true, Options{})
	require.NoError(t, err)
	assert.Len(t, recursive, 3)
}

func TestUploadDirectoryEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.pdf"), []byte("binary"), 0o644))

	backend := &fakeBackend{}
	uploader := newTestUploader(backend, testConfig(), nil)

	results, err := uploader.UploadDirectory(context.Background(), dir, true, Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, backend.calls)
}

func TestUploadFileJournalsAttempts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.md")
	require.NoError(t, os.WriteFile(path, []byte("**User:** hello"), 0o644))

	journal, err := db.NewStore(context.Background(), filepath.Join(dir, "journal.db"))
	require.NoError(t, err)
	defer journal.Close()

	backend := &fakeBackend{records: []mem0.Record{{ID: "m1"}}}
	uploader := newTestUploader(backend, testConfig(), journal)

	_, err = uploader.UploadFile(context.Background(), path, Options{})
	require.NoError(t, err)
	_, err = uploader.UploadFile(context.Background(), filepath.Join(dir, "missing.md"), Options{})
	require.Error(t, err)

	entries, err := journal.RecentUploads(context.Background(), "alice", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, db.StatusError, entries[0].Status)
	assert.NotEmpty(t, entries[0].Error)
	assert.Equal(t, db.StatusSuccess, entries[1].Status)
	assert.Equal(t, "markdown_chat", entries[1].Source)
	assert.Equal(t, 1, entries[1].MemoryCount)
}
