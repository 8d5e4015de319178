// Package history records snapshot runs in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

// Run is one recorded snapshot run.
type Run struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    time.Time
	InboxCount    int
	SentCount     int
	CalendarCount int
	OutputPath    string
}

// Store persists run history.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	inbox_count INTEGER NOT NULL,
	sent_count INTEGER NOT NULL,
	calendar_count INTEGER NOT NULL,
	output_path TEXT NOT NULL
);`

// NewStore opens (and creates if needed) the history database at path.
// An empty path defaults to ~/.graphsnap/history.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".graphsnap", "history.db")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts a completed run.
func (s *Store) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, inbox_count, sent_count, calendar_count, output_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.InboxCount,
		run.SentCount,
		run.CalendarCount,
		run.OutputPath,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, inbox_count, sent_count, calendar_count, output_path
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &started, &finished,
			&run.InboxCount, &run.SentCount, &run.CalendarCount, &run.OutputPath); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
