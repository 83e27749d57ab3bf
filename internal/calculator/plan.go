package calculator

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Planned computes the expected balance on the given marathon day under
// compound growth: start * (1 + dailyPercent/100)^day. A negative percent
// implies decay. Requires day >= 1.
func Planned(start, dailyPercent decimal.Decimal, day int) (decimal.Decimal, error) {
	if day < 1 {
		return decimal.Zero, errors.New("day must be positive")
	}
	growth := decimal.NewFromInt(1).Add(dailyPercent.Div(hundred))
	return start.Mul(growth.Pow(decimal.NewFromInt(int64(day)))), nil
}

// DayNumber returns the 1-based marathon day for today relative to the
// start date, floored at 1 when today is on or before the start date.
// Only the calendar dates matter; time of day is ignored.
func DayNumber(startDate, today time.Time) int {
	day := int(Civil(today).Sub(Civil(startDate)).Hours()/24) + 1
	if day < 1 {
		return 1
	}
	return day
}

// Civil strips the time of day and normalizes to UTC midnight so that
// date arithmetic counts whole calendar days regardless of location.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
