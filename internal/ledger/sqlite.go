package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"MarathonTracker/internal/model"
)

const dateLayout = "2006-01-02"

// SQLiteStore persists the ledger to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite ledger opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		// Fixed id keeps the parameters a true singleton; replacing them
		// is a single upsert, never observable as zero or two rows.
		`CREATE TABLE IF NOT EXISTS params (
			id            INTEGER PRIMARY KEY CHECK (id = 1),
			start_balance TEXT    NOT NULL,
			start_date    TEXT    NOT NULL,
			daily_percent TEXT    NOT NULL,
			duration_days INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS balances (
			day    INTEGER PRIMARY KEY,
			date   TEXT NOT NULL,
			actual TEXT NOT NULL,
			plan   TEXT NOT NULL,
			diff   TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Params() (*model.MarathonParams, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		balance, date, percent string
		duration               int
	)
	err := s.db.QueryRow(
		`SELECT start_balance, start_date, daily_percent, duration_days FROM params WHERE id = 1`,
	).Scan(&balance, &date, &percent, &duration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query params: %w", err)
	}

	p := &model.MarathonParams{DurationDays: duration}
	if p.StartBalance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("stored start_balance %q: %w", balance, err)
	}
	if p.DailyPercent, err = decimal.NewFromString(percent); err != nil {
		return nil, fmt.Errorf("stored daily_percent %q: %w", percent, err)
	}
	if p.StartDate, err = time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("stored start_date %q: %w", date, err)
	}
	return p, nil
}

func (s *SQLiteStore) ReplaceParams(p *model.MarathonParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO params (id, start_balance, start_date, daily_percent, duration_days)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			start_balance = excluded.start_balance,
			start_date    = excluded.start_date,
			daily_percent = excluded.daily_percent,
			duration_days = excluded.duration_days`,
		p.StartBalance.String(), p.StartDate.Format(dateLayout),
		p.DailyPercent.String(), p.DurationDays,
	)
	if err != nil {
		return fmt.Errorf("replace params: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpsertEntry(e *model.BalanceEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO balances (day, date, actual, plan, diff)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(day) DO UPDATE SET
			date   = excluded.date,
			actual = excluded.actual,
			plan   = excluded.plan,
			diff   = excluded.diff`,
		e.Day, e.Date.Format(dateLayout),
		e.Actual.String(), e.Planned.String(), e.Diff.String(),
	)
	if err != nil {
		return fmt.Errorf("upsert entry day %d: %w", e.Day, err)
	}
	return nil
}

func (s *SQLiteStore) ListEntries() ([]model.BalanceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT day, date, actual, plan, diff FROM balances ORDER BY day ASC`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []model.BalanceEntry
	for rows.Next() {
		var (
			e                        model.BalanceEntry
			date, actual, plan, diff string
		)
		if err := rows.Scan(&e.Day, &date, &actual, &plan, &diff); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("stored date %q: %w", date, err)
		}
		if e.Actual, err = decimal.NewFromString(actual); err != nil {
			return nil, fmt.Errorf("stored actual %q: %w", actual, err)
		}
		if e.Planned, err = decimal.NewFromString(plan); err != nil {
			return nil, fmt.Errorf("stored plan %q: %w", plan, err)
		}
		if e.Diff, err = decimal.NewFromString(diff); err != nil {
			return nil, fmt.Errorf("stored diff %q: %w", diff, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	for _, stmt := range []string{`DELETE FROM params`, `DELETE FROM balances`} {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("clear: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite ledger")
	return s.db.Close()
}
