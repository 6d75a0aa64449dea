// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review keeps a history of detection runs in SQLite so reviewers
// can list and filter verdicts after the batch has finished.
package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/privscan/pkg/types"
)

const dbFile = "review.db"

// timeLayout is fixed-width so generated_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Sentinel errors.
var (
	ErrNoRuns      = errors.New("no detection runs recorded")
	ErrRunNotFound = errors.New("detection run not found")
)

// Store manages the review SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates dir/review.db and its schema.
func NewStore(cfg types.ReviewConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "review"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating review directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, dir: dir, maxResults: maxResults}
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

// Path returns the database file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, dbFile)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			generated_at TEXT NOT NULL,
			sensitivity TEXT NOT NULL,
			provider TEXT,
			total INTEGER NOT NULL,
			privileged INTEGER NOT NULL,
			high_risk INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			document TEXT NOT NULL,
			is_privileged INTEGER NOT NULL,
			high_risk INTEGER NOT NULL,
			confidence REAL NOT NULL,
			reasons TEXT,
			keywords TEXT,
			diagnostics TEXT,
			UNIQUE(run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_confidence ON results(confidence)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun records run and its results, in input order, in one transaction.
// Saving a run id that already exists replaces it.
func (s *Store) SaveRun(ctx context.Context, run types.DetectionRun, results []types.DetectionResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, run.ID); err != nil {
		return fmt.Errorf("deleting previous run: %w", err)
	}

	var privileged, highRisk int
	for _, r := range results {
		if r.IsPrivileged {
			privileged++
		}
		if r.HighRisk() {
			highRisk++
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, generated_at, sensitivity, provider, total, privileged, high_risk)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.GeneratedAt.UTC().Format(timeLayout), string(run.Sensitivity),
		run.Provider, len(results), privileged, highRisk,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, seq, document, is_privileged, high_risk, confidence, reasons, keywords, diagnostics)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		reasonsJSON, _ := json.Marshal(r.Reasons)
		keywordsJSON, _ := json.Marshal(r.Keywords)
		diagJSON, err := json.Marshal(r.Diagnostics)
		if err != nil {
			return fmt.Errorf("marshaling diagnostics for %s: %w", r.DocumentID, err)
		}
		_, err = stmt.ExecContext(ctx,
			run.ID, i, r.DocumentID, r.IsPrivileged, r.HighRisk(), r.Confidence,
			string(reasonsJSON), string(keywordsJSON), string(diagJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting result %s: %w", r.DocumentID, err)
		}
	}

	return tx.Commit()
}
