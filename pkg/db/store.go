// Owner: slimane@eternis.ai
package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Journal entry statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Store is the local upload journal. It records upload attempts and their
// outcomes; the memories themselves live only in the remote backend.
type Store struct {
	db *sqlx.DB
}

// UploadEntry is one journaled upload attempt.
type UploadEntry struct {
	ID          string    `db:"id" json:"id"`
	File        string    `db:"file" json:"file"`
	UserID      string    `db:"user_id" json:"user_id"`
	Source      string    `db:"source" json:"source"`
	ExtractMode string    `db:"extract_mode" json:"extract_mode"`
	Status      string    `db:"status" json:"status"`
	Error       string    `db:"error" json:"error,omitempty"`
	MemoryCount int       `db:"memory_count" json:"memory_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// NewStore opens the journal database at dbPath, creating the file, its
// parent directory, and the schema as needed.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	// Enable WAL mode for better concurrency and performance
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS uploads (
			id TEXT PRIMARY KEY,
			file TEXT,
			user_id TEXT NOT NULL,
			source TEXT,
			extract_mode TEXT,
			status TEXT NOT NULL,
			error TEXT,
			memory_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_uploads_user_id ON uploads(user_id);
	`)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// RecordUpload journals one upload attempt. A fresh ID and timestamp are
// assigned when the entry carries none.
func (s *Store) RecordUpload(ctx context.Context, entry UploadEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO uploads (id, file, user_id, source, extract_mode, status, error, memory_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.File, entry.UserID, entry.Source, entry.ExtractMode,
		entry.Status, entry.Error, entry.MemoryCount, entry.CreatedAt)
	return err
}

// RecentUploads returns the latest journal entries for userID, newest first.
func (s *Store) RecentUploads(ctx context.Context, userID string, limit int) ([]UploadEntry, error) {
	var entries []UploadEntry
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, file, user_id, source, extract_mode, status, error, memory_count, created_at
		FROM uploads
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	return entries, err
}

// CountByStatus aggregates the journal for userID by entry status.
func (s *Store) CountByStatus(ctx context.Context, userID string) (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT status, COUNT(*) AS count
		FROM uploads
		WHERE user_id = ?
		GROUP BY status
	`, userID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
