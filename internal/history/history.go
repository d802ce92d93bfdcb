/*
Package history archives per-day worked totals in SQLite.

The CSV log stays the source of truth; history only keeps a durable summary
of days that are over, so long-range totals do not need the full log.

TABLE:
  daily_totals(day TEXT PRIMARY KEY, worked_seconds INTEGER,
               records INTEGER, archived_at TEXT)

  day is YYYY-MM-DD (UTC). Archiving a day again replaces its row.

USAGE:
  store, err := history.Open(filepath.Join(dataDir, history.DefaultFile))
  if err != nil {
      return err
  }
  defer store.Close()
*/
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xolan/punch/internal/compact"
	"github.com/xolan/punch/internal/stats"
)

// DefaultFile is the database file name inside the data directory
const DefaultFile = "history.db"

// Store is the SQLite-backed archive of daily totals.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Open opens (and creates if needed) the archive at dbPath.
// Use ":memory:" for an in-memory database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_totals (
		day TEXT PRIMARY KEY,
		worked_seconds INTEGER NOT NULL,
		records INTEGER NOT NULL,
		archived_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Upsert stores the total for one day, replacing any earlier archive of it.
func (s *Store) Upsert(ctx context.Context, total stats.DayTotal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO daily_totals (day, worked_seconds, records, archived_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			worked_seconds = excluded.worked_seconds,
			records = excluded.records,
			archived_at = excluded.archived_at
	`

	_, err := s.db.ExecContext(ctx, query,
		total.Key(),
		total.WorkedSeconds,
		total.Records,
		s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", total.Key(), err)
	}
	return nil
}

// UpsertAll stores several days in one transaction.
func (s *Store) UpsertAll(ctx context.Context, totals []stats.DayTotal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_totals (day, worked_seconds, records, archived_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			worked_seconds = excluded.worked_seconds,
			records = excluded.records,
			archived_at = excluded.archived_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare archive statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	archivedAt := s.now().UTC().Format(time.RFC3339)
	for _, total := range totals {
		if _, err := stmt.ExecContext(ctx, total.Key(), total.WorkedSeconds, total.Records, archivedAt); err != nil {
			return fmt.Errorf("failed to archive %s: %w", total.Key(), err)
		}
	}

	return tx.Commit()
}

// Entry is one archived day
type Entry struct {
	stats.DayTotal
	ArchivedAt time.Time
}

// List returns the archived days in [from, to] in ascending order.
// Only the calendar date of from and to is used.
func (s *Store) List(ctx context.Context, from, to time.Time) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT day, worked_seconds, records, archived_at
		 FROM daily_totals WHERE day >= ? AND day <= ? ORDER BY day`,
		compact.DayKey(from), compact.DayKey(to),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var day, archivedAt string
		if err := rows.Scan(&day, &e.WorkedSeconds, &e.Records, &archivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Day, err = time.Parse(compact.DayKeyLayout, day)
		if err != nil {
			return nil, fmt.Errorf("invalid day %q in history: %w", day, err)
		}
		e.ArchivedAt, _ = time.Parse(time.RFC3339, archivedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Total returns the sum of archived worked seconds in [from, to].
func (s *Store) Total(ctx context.Context, from, to time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(worked_seconds), 0)
		 FROM daily_totals WHERE day >= ? AND day <= ?`,
		compact.DayKey(from), compact.DayKey(to),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum history: %w", err)
	}
	return total, nil
}
