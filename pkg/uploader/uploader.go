package uploader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/EternisAI/recollect/pkg/config"
	"github.com/EternisAI/recollect/pkg/db"
	"github.com/EternisAI/recollect/pkg/helpers"
	"github.com/EternisAI/recollect/pkg/mem0"
	"github.com/EternisAI/recollect/pkg/parsing"
)

var (
	// ErrFileTooLarge rejects files over the configured size limit.
	ErrFileTooLarge = errors.New("file exceeds the configured size limit")
	// ErrNoSupportedFiles reports a directory upload that matched nothing.
	ErrNoSupportedFiles = errors.New("no supported files found")
)

// Backend is the slice of the memory client the uploader needs.
type Backend interface {
	Add(ctx context.Context, messages []parsing.Message, opts mem0.AddOptions) ([]mem0.Record, error)
}

// Options carries per-upload settings. Empty UserID and ExtractMode fall
// back to the configured defaults. The pointer fields are tri-state and are
// forwarded to the backend only when non-nil.
type Options struct {
	UserID             string
	ExtractMode        string
	Metadata           map[string]any
	CustomInstructions *string
	Includes           *string
	Excludes           *string
	Infer              *bool
}

// UploadResult is the per-file outcome of a batch or directory upload.
type UploadResult struct {
	File    string
	Status  string
	Records []mem0.Record
	Err     error
}

// Uploader parses content and stores it in the memory backend, journaling
// every attempt when a journal store is attached.
type Uploader struct {
	backend Backend
	parser  *parsing.Parser
	journal *db.Store
	config  *config.Config
	logger  *clog.Logger
	now     func() time.Time
}

// NewUploader wires an uploader. journal may be nil to disable journaling.
func NewUploader(backend Backend, parser *parsing.Parser, journal *db.Store, cfg *config.Config, logger *clog.Logger) *Uploader {
	if logger == nil {
		logger = clog.Default()
	}
	if parser == nil {
		parser = parsing.NewParser(logger)
	}
	return &Uploader{
		backend: backend,
		parser:  parser,
		journal: journal,
		config:  cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// UploadText stores a free-form text snippet. The content is always treated
// as plain text, never sniffed for chat structure.
func (u *Uploader) UploadText(ctx context.Context, content string, opts Options) ([]mem0.Record, error) {
	u.applyDefaults(&opts)
	if strings.TrimSpace(content) == "" {
		return nil, &mem0.ValidationError{Reason: "content is empty"}
	}

	doc := parsing.ParsePlainText(content, opts.ExtractMode)
	records, err := u.add(ctx, doc, opts, opts.Metadata)
	u.journalAttempt(ctx, "(text)", opts, doc, records, err)
	if err != nil {
		return nil, err
	}

	u.logger.Info("Uploaded text", "user", opts.UserID, "chars", len(content), "memories", len(records))
	return records, nil
}

// UploadFile parses one file and stores its messages. Every attempt lands in
// the journal, failed ones included.
func (u *Uploader) UploadFile(ctx context.Context, path string, opts Options) ([]mem0.Record, error) {
	u.applyDefaults(&opts)

	records, doc, err := u.uploadFile(ctx, path, opts)
	u.journalAttempt(ctx, path, opts, doc, records, err)
	if err != nil {
		return nil, err
	}

	u.logger.Info("Uploaded file", "path", path, "user", opts.UserID, "memories", len(records))
	return records, nil
}

// UploadBatch uploads paths sequentially with per-item isolation: one
// failure never aborts the rest. Progress is logged per config.BatchSize
// chunk.
func (u *Uploader) UploadBatch(ctx context.Context, paths []string, opts Options) []UploadResult {
	u.applyDefaults(&opts)

	results := make([]UploadResult, 0, len(paths))
	batches := helpers.Batch(paths, u.config.BatchSize)
	for i, batch := range batches {
		u.logger.Info("Uploading batch", "batch", i+1, "batches", len(batches), "files", len(batch))
		for _, path := range batch {
			records, err := u.UploadFile(ctx, path, opts)
			if err != nil {
				u.logger.Warn("Upload failed", "file", path, "error", err)
				results = append(results, UploadResult{File: path, Status: db.StatusError, Err: err})
				continue
			}
			results = append(results, UploadResult{File: path, Status: db.StatusSuccess, Records: records})
		}
	}
	return results
}

// UploadDirectory uploads every supported file under dir, recursing when
// asked. A directory with no supported files is not an error; it yields an
// empty result list and a warning log.
func (u *Uploader) UploadDirectory(ctx context.Context, dir string, recursive bool, opts Options) ([]UploadResult, error) {
	paths, err := u.collectFiles(dir, recursive)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		u.logger.Warn("No supported files found", "dir", dir, "formats", u.config.SupportedFormats)
		return []UploadResult{}, nil
	}

	u.logger.Info("Uploading directory", "dir", dir, "files", len(paths), "recursive", recursive)
	return u.UploadBatch(ctx, paths, opts), nil
}

func (u *Uploader) applyDefaults(opts *Options) {
	if opts.UserID == "" {
		opts.UserID = u.config.DefaultUserID
	}
	if opts.ExtractMode == "" {
		opts.ExtractMode = u.config.DefaultExtractMode
	}
}

func (u *Uploader) uploadFile(ctx context.Context, path string, opts Options) ([]mem0.Record, *parsing.ParsedDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	sizeMB := float64(info.Size()) / (1024 * 1024)
	if sizeMB > float64(u.config.MaxFileSizeMB) {
		return nil, nil, fmt.Errorf("%s is %.1f MB (limit %d MB): %w", path, sizeMB, u.config.MaxFileSizeMB, ErrFileTooLarge)
	}

	doc, err := u.parser.ParseFile(path, opts.ExtractMode)
	if err != nil {
		return nil, nil, err
	}

	// File uploads take no caller metadata; the parse result and the fresh
	// upload fields fully describe the file.
	records, err := u.add(ctx, doc, opts, nil)
	return records, doc, err
}

func (u *Uploader) add(ctx context.Context, doc *parsing.ParsedDocument, opts Options, caller map[string]any) ([]mem0.Record, error) {
	metadata := MergeMetadata(doc.Metadata, caller, opts, u.now())
	return u.backend.Add(ctx, doc.Messages, mem0.AddOptions{
		UserID:             opts.UserID,
		Metadata:           metadata,
		CustomInstructions: opts.CustomInstructions,
		Includes:           opts.Includes,
		Excludes:           opts.Excludes,
		Infer:              opts.Infer,
	})
}

func (u *Uploader) journalAttempt(ctx context.Context, file string, opts Options, doc *parsing.ParsedDocument, records []mem0.Record, err error) {
	if u.journal == nil {
		return
	}

	entry := db.UploadEntry{
		File:        file,
		UserID:      opts.UserID,
		ExtractMode: opts.ExtractMode,
		Status:      db.StatusSuccess,
		MemoryCount: len(records),
	}
	if doc != nil {
		entry.Source, _ = doc.Metadata["source"].(string)
	}
	if err != nil {
		entry.Status = db.StatusError
		entry.Error = err.Error()
	}

	if jerr := u.journal.RecordUpload(ctx, entry); jerr != nil {
		u.logger.Warn("Failed to journal upload", "file", file, "error", jerr)
	}
}

func (u *Uploader) collectFiles(dir string, recursive bool) ([]string, error) {
	if recursive {
		var paths []string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && u.supported(d.Name()) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
		return paths, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && u.supported(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

func (u *Uploader) supported(name string) bool {
	lower := strings.ToLower(name)
	return lo.SomeBy(u.config.SupportedFormats, func(ext string) bool {
		return strings.HasSuffix(lower, strings.ToLower(ext))
	})
}
