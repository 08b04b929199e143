// Package runlog is the SQLite run-history store: one row per harvest
// run and one per gene outcome. It exists for post-hoc inspection
// (which genes keep failing, how long runs take) and is optional — the
// orchestrator only writes here when a database path is configured.
//
// Usage:
//
//	import _ "modernc.org/sqlite"
//	store, err := runlog.Open("harvest.db")
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	total       INTEGER NOT NULL DEFAULT 0,
	succeeded   INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS outcomes (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	gene        TEXT NOT NULL,
	gene_id     TEXT NOT NULL,
	ok          INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL,
	at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
`

// Outcome is one recorded gene attempt result.
type Outcome struct {
	Gene     string
	GeneID   string
	OK       bool
	Error    string
	Duration time.Duration
}

// Store wraps the run-history database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at path with the production
// pragmas applied and the schema ensured.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("runlog: open %s: %w", path, err)
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("runlog: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("runlog: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenMemory opens an in-memory store for tests.
func OpenMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("runlog: open memory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// BeginRun creates a run row and returns its UUIDv7 id.
func (s *Store) BeginRun(ctx context.Context) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("runlog: begin run: %w", err)
	}
	return id, nil
}

// RecordOutcome appends one gene outcome to the run.
func (s *Store) RecordOutcome(ctx context.Context, runID string, o Outcome) error {
	ok := 0
	if o.OK {
		ok = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (run_id, gene, gene_id, ok, error, duration_ms, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, o.Gene, o.GeneID, ok, o.Error,
		o.Duration.Milliseconds(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("runlog: record outcome: %w", err)
	}
	return nil
}

// FinishRun stamps the run's end time and totals.
func (s *Store) FinishRun(ctx context.Context, runID string, succeeded, failed int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, total = ?, succeeded = ?, failed = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339),
		succeeded+failed, succeeded, failed, runID)
	if err != nil {
		return fmt.Errorf("runlog: finish run: %w", err)
	}
	return nil
}

// Outcomes returns the recorded outcomes of a run in insertion order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT gene, gene_id, ok, error, duration_ms
		 FROM outcomes WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("runlog: query outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var o Outcome
		var ok, ms int64
		if err := rows.Scan(&o.Gene, &o.GeneID, &ok, &o.Error, &ms); err != nil {
			return nil, fmt.Errorf("runlog: scan outcome: %w", err)
		}
		o.OK = ok == 1
		o.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, o)
	}
	return out, rows.Err()
}
