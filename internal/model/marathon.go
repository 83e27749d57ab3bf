package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarathonParams holds the user-configured marathon. At most one live
// instance exists; completing setup replaces it wholesale.
type MarathonParams struct {
	StartBalance decimal.Decimal
	StartDate    time.Time
	DailyPercent decimal.Decimal
	DurationDays int
}

// BalanceEntry is one reported balance, unique by Day.
type BalanceEntry struct {
	Day     int
	Date    time.Time
	Actual  decimal.Decimal
	Planned decimal.Decimal
	Diff    decimal.Decimal
}
