// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records conversion runs and their item outcomes in a
// SQLite database.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf-convert/pkg/types"
)

const (
	defaultLimit = 20

	// timeLayout has fixed width so started_at sorts as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the ledger database.
type Store struct {
	db *sql.DB
}

// Run is one recorded conversion run.
type Run struct {
	ID        string
	StartedAt time.Time
	Elapsed   time.Duration
	Processed int
	Skipped   int
	Failed    int
}

// Item is one recorded item outcome.
type Item struct {
	RunID    string
	RelPath  string
	Outcome  types.Outcome
	JPEGPath string
	PDFDest  string
	MetaDest string
	Pages    int
	Error    string
}

// Open opens or creates the ledger at path and creates the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
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
			started_at TEXT NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			processed INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			rel_path TEXT NOT NULL,
			outcome TEXT NOT NULL,
			jpeg_path TEXT,
			pdf_dest TEXT,
			meta_dest TEXT,
			pages INTEGER,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_run_id ON items(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_rel_path ON items(rel_path)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores the summary and every item result in one transaction.
func (s *Store) RecordRun(ctx context.Context, sum types.RunSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, elapsed_ms, processed, skipped, failed) VALUES (?, ?, ?, ?, ?, ?)`,
		sum.RunID, sum.StartedAt.UTC().Format(timeLayout), sum.Elapsed.Milliseconds(),
		sum.Processed, sum.Skipped, sum.Failed,
	); err != nil {
		return fmt.Errorf("inserting run %s: %w", sum.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (run_id, rel_path, outcome, jpeg_path, pdf_dest, meta_dest, pages, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range sum.Results {
		var errText string
		if r.Err != nil {
			errText = r.Err.Error()
		}
		if _, err := stmt.ExecContext(ctx,
			sum.RunID, r.Item.RelPath, string(r.Outcome),
			r.JPEGPath, r.PDFDest, r.MetaDest, r.Pages, errText,
		); err != nil {
			return fmt.Errorf("inserting item %s: %w", r.Item.RelPath, err)
		}
	}

	return tx.Commit()
}

// Runs returns the most recent runs, newest first. A limit of zero or
// less uses the default of 20.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, elapsed_ms, processed, skipped, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			started   string
			elapsedMS int64
		)
		if err := rows.Scan(&r.ID, &started, &elapsedMS, &r.Processed, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parsing start time of run %s: %w", r.ID, err)
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Items returns the recorded items of a run in processing order.
func (s *Store) Items(ctx context.Context, runID string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, rel_path, outcome, jpeg_path, pdf_dest, meta_dest, pages, error
		 FROM items WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying items of run %s: %w", runID, err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			it      Item
			outcome string
		)
		if err := rows.Scan(&it.RunID, &it.RelPath, &outcome, &it.JPEGPath, &it.PDFDest, &it.MetaDest, &it.Pages, &it.Error); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		it.Outcome = types.Outcome(outcome)
		items = append(items, it)
	}
	return items, rows.Err()
}
