/*
Package sqlite archives completed payroll runs.

PURPOSE:
  Every successful run is appended here so reviewers can re-download a
  workbook or compare against an earlier upload. The archive is an output
  log, not a source of truth: a new run always recomputes from the
  uploaded input and never reads past results.

APPEND-ONLY:
  Runs are inserted and read, never updated or deleted. A corrected upload
  is simply a newer run.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block the
  single writer, and crash recovery is cleaner.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - api/handlers.go: persists a run after each successful upload
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/goalhome/payroll-engine/payroll"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("payroll run not found")

// RunRecord is one archived payroll run.
type RunRecord struct {
	ID         int64
	SourceFile string
	CreatedAt  time.Time
	Warnings   []payroll.Warning
	Hours      []payroll.Row
	Dollars    []payroll.Row
}

// RunSummary is the listing view of a run, without the row payloads.
type RunSummary struct {
	ID            int64
	SourceFile    string
	CreatedAt     time.Time
	EmployeeCount int
	WarningCount  int
}

// Store archives runs in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) the run archive at the given path. Use
// ":memory:" for an ephemeral archive.
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
	CREATE TABLE IF NOT EXISTS payroll_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_file TEXT NOT NULL,
		created_at TEXT NOT NULL,
		employee_count INTEGER NOT NULL,
		warnings_json TEXT NOT NULL,
		hours_json TEXT NOT NULL,
		dollars_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payroll_runs_created
		ON payroll_runs(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun appends a run and returns its id.
func (s *Store) SaveRun(ctx context.Context, rec *RunRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	warnings, err := marshalOrEmptyArray(rec.Warnings)
	if err != nil {
		return 0, err
	}
	hours, err := marshalOrEmptyArray(rec.Hours)
	if err != nil {
		return 0, err
	}
	dollars, err := marshalOrEmptyArray(rec.Dollars)
	if err != nil {
		return 0, err
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO payroll_runs (source_file, created_at, employee_count, warnings_json, hours_json, dollars_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SourceFile,
		createdAt.Format(time.RFC3339Nano),
		len(rec.Hours),
		warnings, hours, dollars,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	return res.LastInsertId()
}

// ListRuns returns all archived runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_file, created_at, employee_count, warnings_json
		FROM payroll_runs
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			summary   RunSummary
			createdAt string
			warnings  string
		)
		if err := rows.Scan(&summary.ID, &summary.SourceFile, &createdAt, &summary.EmployeeCount, &warnings); err != nil {
			return nil, err
		}
		if summary.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("corrupt created_at for run %d: %w", summary.ID, err)
		}
		var ws []payroll.Warning
		if err := json.Unmarshal([]byte(warnings), &ws); err != nil {
			return nil, fmt.Errorf("corrupt warnings for run %d: %w", summary.ID, err)
		}
		summary.WarningCount = len(ws)
		out = append(out, summary)
	}
	return out, rows.Err()
}

// GetRun loads one archived run with its full row payloads.
func (s *Store) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rec       = RunRecord{ID: id}
		createdAt string
		warnings  string
		hours     string
		dollars   string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT source_file, created_at, warnings_json, hours_json, dollars_json
		FROM payroll_runs WHERE id = ?`, id).
		Scan(&rec.SourceFile, &createdAt, &warnings, &hours, &dollars)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("corrupt created_at for run %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(warnings), &rec.Warnings); err != nil {
		return nil, fmt.Errorf("corrupt warnings for run %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(hours), &rec.Hours); err != nil {
		return nil, fmt.Errorf("corrupt hours for run %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(dollars), &rec.Dollars); err != nil {
		return nil, fmt.Errorf("corrupt dollars for run %d: %w", id, err)
	}
	return &rec, nil
}

// marshalOrEmptyArray keeps nil slices readable as [] instead of null.
func marshalOrEmptyArray(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return "[]", nil
	}
	return string(data), nil
}
