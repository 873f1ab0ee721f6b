// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records import runs and the posts they wrote in a SQLite
// database, so a migration can be audited or repeated later.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/csv2posts/pkg/types"
)

// defaultListLimit caps Runs when no limit is given.
const defaultListLimit = 20

// Store manages the ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating its parent
// directory and schema when needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			created INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			line INTEGER NOT NULL,
			filename TEXT NOT NULL,
			permalink TEXT NOT NULL,
			title TEXT NOT NULL,
			published_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_run_id ON posts(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is an import run in progress. It implements importer.Recorder.
type Run struct {
	store *Store
	ID    string
}

// BeginRun inserts a new run for source and returns it.
func (s *Store) BeginRun(ctx context.Context, source, outputDir string) (*Run, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, output_dir, started_at) VALUES (?, ?, ?, ?)`,
		id, source, outputDir, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	return &Run{store: s, ID: id}, nil
}

// Record stores a written post against the run.
func (r *Run) Record(ctx context.Context, entry types.PostEntry) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO posts (run_id, line, filename, permalink, title, published_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, entry.Line, entry.Filename, entry.Permalink, entry.Title,
		entry.PublishedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", entry.Filename, err)
	}
	return nil
}

// Finish stamps the run with its finish time and counts.
func (r *Run) Finish(ctx context.Context, created, failed int) error {
	_, err := r.store.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, created = ?, failed = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), created, failed, r.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first. A limit of zero or less
// uses the default.
func (s *Store) Runs(ctx context.Context, limit int) ([]types.RunRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, output_dir, started_at, finished_at, created, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunRecord
	for rows.Next() {
		var (
			rec      types.RunRecord
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.OutputDir, &started, &finished, &rec.Created, &rec.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished.Valid {
			rec.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// Posts returns the posts recorded for runID in source order.
func (s *Store) Posts(ctx context.Context, runID string) ([]types.PostEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, line, filename, permalink, title, published_at
		 FROM posts WHERE run_id = ? ORDER BY line`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	var entries []types.PostEntry
	for rows.Next() {
		var (
			e         types.PostEntry
			published string
		)
		if err := rows.Scan(&e.RunID, &e.Line, &e.Filename, &e.Permalink, &e.Title, &published); err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		e.PublishedAt, _ = time.Parse(time.RFC3339, published)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
