// Package report turns stored balance entries into weekly statistics, a
// plan-vs-actual chart and a spreadsheet export. It only ever reads the
// ledger's entry list and knows nothing about the dialog engine.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"MarathonTracker/internal/calculator"
	"MarathonTracker/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Weekly builds the statistics message for the trailing 7 calendar days
// ending at the latest stored date. Returns "" when entries is empty.
func Weekly(entries []model.BalanceEntry, currency string) string {
	first, last, ok := WindowBounds(entries)
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Weekly statistics</b> (%s - %s):\n\n",
		first.Format("2006-01-02"), last.Format("2006-01-02")))

	sum := decimal.Zero
	count := 0
	for _, e := range entries {
		date := calculator.Civil(e.Date)
		if date.Before(first) || date.After(last) {
			continue
		}
		perc := deviationPercent(e)
		sum = sum.Add(perc)
		count++
		b.WriteString(fmt.Sprintf("Day %d: Plan %s%s | Actual %s%s | %s%%\n",
			e.Day, e.Planned.StringFixed(2), currency,
			e.Actual.StringFixed(2), currency, signed(perc)))
	}
	if count == 0 {
		return ""
	}

	avg := sum.Div(decimal.NewFromInt(int64(count)))
	b.WriteString(fmt.Sprintf("\n📈 Average deviation for the week: %s%%", signed(avg)))
	return b.String()
}

// deviationPercent is diff relative to plan, in percent.
func deviationPercent(e model.BalanceEntry) decimal.Decimal {
	if e.Planned.IsZero() {
		return decimal.Zero
	}
	return e.Diff.Div(e.Planned).Mul(hundred)
}

// signed renders a decimal with an explicit sign, two decimal places.
func signed(d decimal.Decimal) string {
	if d.Sign() >= 0 {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

// WindowBounds reports the trailing 7-calendar-day window ending at the
// latest stored date. Bounds are civil dates; an entry's time of day
// never decides whether its day is inside the window.
func WindowBounds(entries []model.BalanceEntry) (first, last time.Time, ok bool) {
	if len(entries) == 0 {
		return time.Time{}, time.Time{}, false
	}
	last = calculator.Civil(entries[0].Date)
	for _, e := range entries[1:] {
		if d := calculator.Civil(e.Date); d.After(last) {
			last = d
		}
	}
	return last.AddDate(0, 0, -6), last, true
}
