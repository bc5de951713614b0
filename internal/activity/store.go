// Package activity keeps a local ledger of append attempts.
//
// One row per remember_this call that reached the document service: which
// entry, which document, whether it was stored, and the error if not. The
// memory text itself is never written here; the remote document is the
// only place memories live.
package activity

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Status values for a Record.
const (
	StatusStored = "stored"
	StatusFailed = "failed"
)

// Record is one append attempt.
type Record struct {
	ID         int64  `json:"id"`
	EntryID    string `json:"entry_id"`
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	Length     int    `json:"length"`
	CreatedAt  string `json:"created_at"`
}

// Stats holds aggregate counts.
type Stats struct {
	Total      int    `json:"total"`
	Stored     int    `json:"stored"`
	Failed     int    `json:"failed"`
	LastStored string `json:"last_stored,omitempty"`
}

// Recorder is what the remember_this tool needs from the ledger.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// Store is the SQLite-backed ledger.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the ledger database at path.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("activity: create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("activity: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("activity: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("activity: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS appends (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id    TEXT    NOT NULL,
			document_id TEXT    NOT NULL,
			status      TEXT    NOT NULL,
			error       TEXT,
			length      INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_appends_created ON appends(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_appends_status  ON appends(status);
	`)
	return err
}

// Record inserts one attempt. CreatedAt defaults to now (UTC, RFC 3339).
func (s *Store) Record(ctx context.Context, rec Record) error {
	if rec.Status != StatusStored && rec.Status != StatusFailed {
		return fmt.Errorf("activity: invalid status %q", rec.Status)
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	var errText sql.NullString
	if rec.Error != "" {
		errText = sql.NullString{String: rec.Error, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO appends (entry_id, document_id, status, error, length, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.EntryID, rec.DocumentID, rec.Status, errText, rec.Length, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("activity: record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entry_id, document_id, status, error, length, created_at
		 FROM appends ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("activity: recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var r Record
		var errText sql.NullString
		if err := rows.Scan(&r.ID, &r.EntryID, &r.DocumentID, &r.Status, &errText, &r.Length, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("activity: scan: %w", err)
		}
		r.Error = errText.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats returns aggregate counts over the whole ledger.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var last sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'stored' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
			MAX(CASE WHEN status = 'stored' THEN created_at END)
		FROM appends`).Scan(&stats.Total, &stats.Stored, &stats.Failed, &last)
	if err != nil {
		return nil, fmt.Errorf("activity: stats: %w", err)
	}
	stats.LastStored = last.String
	return stats, nil
}
