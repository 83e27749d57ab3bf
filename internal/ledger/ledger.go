package ledger

import "MarathonTracker/internal/model"

// Store persists the marathon parameters (0 or 1 live instance) and the
// per-day balance entries (unique by day).
type Store interface {
	// Params returns the live parameters, or nil when setup has not run.
	Params() (*model.MarathonParams, error)
	// ReplaceParams atomically replaces the singleton parameters.
	ReplaceParams(p *model.MarathonParams) error
	// UpsertEntry inserts or replaces the entry for its day.
	UpsertEntry(e *model.BalanceEntry) error
	// ListEntries returns all entries ordered by day ascending.
	ListEntries() ([]model.BalanceEntry, error)
	// ClearAll deletes the parameters and every entry.
	ClearAll() error
	Close() error
}
