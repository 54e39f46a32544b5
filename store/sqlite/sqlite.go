/*
Package sqlite persists the history of calculation runs.

PURPOSE:
  The calculator itself is pure and stateless; this store is a service
  convenience that records every run (policy snapshot, source digest,
  result) so the latest balance can be served without re-fetching the
  export, and so balance history stays auditable.

APPEND-ONLY ENFORCEMENT:
  Runs are never updated or deleted; corrections happen by running the
  calculation again. No UPDATE or DELETE statement exists in this package.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  the single writer.

USAGE:
  store, err := sqlite.New("./data/flextime.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - api/handlers.go: Writes a run per calculation, reads history
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Run is one persisted calculation.
type Run struct {
	ID                   int64
	CreatedAt            time.Time
	SourceDigest         string
	Strategy             string
	WeeklyHours          decimal.Decimal
	StartingBalanceHours decimal.Decimal
	PeriodStart          string // DD.MM.YYYY or empty for unbounded
	PeriodEnd            string
	RecordCount          int
	BalanceMinutes       int
	BalanceLabel         string
	LastConsideredDate   string
}

// Store persists calculation runs in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Calculation runs (append-only)
	CREATE TABLE IF NOT EXISTS calculation_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		source_digest TEXT NOT NULL,
		strategy TEXT NOT NULL,
		weekly_hours TEXT NOT NULL,
		starting_balance_hours TEXT NOT NULL,
		period_start TEXT NOT NULL DEFAULT '',
		period_end TEXT NOT NULL DEFAULT '',
		record_count INTEGER NOT NULL,
		balance_minutes INTEGER NOT NULL,
		balance_label TEXT NOT NULL,
		last_considered_date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at
		ON calculation_runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_digest
		ON calculation_runs(source_digest);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RUN PERSISTENCE
// =============================================================================

// SaveRun appends a run and returns its id.
func (s *Store) SaveRun(ctx context.Context, run Run) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO calculation_runs (
			created_at, source_digest, strategy,
			weekly_hours, starting_balance_hours, period_start, period_end,
			record_count, balance_minutes, balance_label, last_considered_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.CreatedAt.UTC().Format(time.RFC3339),
		run.SourceDigest,
		run.Strategy,
		run.WeeklyHours.String(),
		run.StartingBalanceHours.String(),
		run.PeriodStart,
		run.PeriodEnd,
		run.RecordCount,
		run.BalanceMinutes,
		run.BalanceLabel,
		run.LastConsideredDate,
	)
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, source_digest, strategy,
		       weekly_hours, starting_balance_hours, period_start, period_end,
		       record_count, balance_minutes, balance_label, last_considered_date
		FROM calculation_runs
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestRun returns the newest run, or nil when none exist.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var createdAt, weekly, starting string

	err := row.Scan(
		&run.ID, &createdAt, &run.SourceDigest, &run.Strategy,
		&weekly, &starting, &run.PeriodStart, &run.PeriodEnd,
		&run.RecordCount, &run.BalanceMinutes, &run.BalanceLabel, &run.LastConsideredDate,
	)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	if run.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return Run{}, fmt.Errorf("scan run created_at: %w", err)
	}
	if run.WeeklyHours, err = decimal.NewFromString(weekly); err != nil {
		return Run{}, fmt.Errorf("scan run weekly_hours: %w", err)
	}
	if run.StartingBalanceHours, err = decimal.NewFromString(starting); err != nil {
		return Run{}, fmt.Errorf("scan run starting_balance_hours: %w", err)
	}
	return run, nil
}
