package dialog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"MarathonTracker/internal/ledger"
	"MarathonTracker/internal/model"
)

const testChat = int64(42)

func newTestEngine() (*Engine, *ledger.MemoryStore) {
	store := ledger.NewMemoryStore()
	e := NewEngine(store, "Arthur", "$")
	e.Now = func() time.Time {
		return time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	}
	return e, store
}

// send feeds one message and returns all reply texts joined.
func send(e *Engine, text string) string {
	var parts []string
	for _, r := range e.HandleMessage(testChat, text) {
		parts = append(parts, r.Text)
	}
	return strings.Join(parts, "\n")
}

func seedParams(t *testing.T, store ledger.Store) *model.MarathonParams {
	t.Helper()
	p := &model.MarathonParams{
		StartBalance: decimal.NewFromInt(100),
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		DailyPercent: decimal.NewFromInt(2),
		DurationDays: 90,
	}
	if err := store.ReplaceParams(p); err != nil {
		t.Fatalf("seed params: %v", err)
	}
	return p
}

func TestSetupFlow_StoresLiteralInputs(t *testing.T) {
	e, store := newTestEngine()

	if got := send(e, "/start"); !strings.Contains(got, "starting balance") {
		t.Fatalf("expected balance prompt, got %q", got)
	}
	if got := send(e, "300"); !strings.Contains(got, "start date") {
		t.Fatalf("expected date prompt, got %q", got)
	}
	if got := send(e, "2025-01-01"); !strings.Contains(got, "daily percent") {
		t.Fatalf("expected percent prompt, got %q", got)
	}
	if got := send(e, "2.5"); !strings.Contains(got, "How many days") {
		t.Fatalf("expected duration prompt, got %q", got)
	}
	if got := send(e, "90"); !strings.Contains(got, "✅") {
		t.Fatalf("expected confirmation summary, got %q", got)
	}

	p, err := store.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if p == nil {
		t.Fatal("expected params persisted")
	}
	if !p.StartBalance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("start balance: expected 300, got %s", p.StartBalance)
	}
	if p.StartDate.Format("2006-01-02") != "2025-01-01" {
		t.Errorf("start date: expected 2025-01-01, got %s", p.StartDate)
	}
	if !p.DailyPercent.Equal(decimal.NewFromFloat(2.5)) {
		t.Errorf("daily percent: expected 2.5, got %s", p.DailyPercent)
	}
	if p.DurationDays != 90 {
		t.Errorf("duration: expected 90, got %d", p.DurationDays)
	}
}

func TestSetupFlow_InvalidInputsReprompt(t *testing.T) {
	e, store := newTestEngine()
	send(e, "/start")

	// Must stay on the balance step until a positive decimal arrives.
	for _, bad := range []string{"abc", "-5", "0"} {
		if got := send(e, bad); !strings.Contains(got, "positive number") {
			t.Fatalf("input %q: expected re-prompt, got %q", bad, got)
		}
	}
	send(e, "300")

	if got := send(e, "tomorrow"); !strings.Contains(got, "2025-10-29") {
		t.Fatalf("expected date re-prompt with example, got %q", got)
	}
	send(e, "2025-01-01")

	if got := send(e, "two"); !strings.Contains(got, "e.g. 2") {
		t.Fatalf("expected percent re-prompt, got %q", got)
	}
	send(e, "2")

	for _, bad := range []string{"ninety", "0", "-3"} {
		if got := send(e, bad); !strings.Contains(got, "e.g. 90") {
			t.Fatalf("input %q: expected duration re-prompt, got %q", bad, got)
		}
	}

	// Nothing persisted until the final step succeeds.
	if p, _ := store.Params(); p != nil {
		t.Fatal("params must not be persisted before the flow completes")
	}
	if got := send(e, "90"); !strings.Contains(got, "✅") {
		t.Fatalf("expected confirmation, got %q", got)
	}
}

func TestStart_ShortCircuitsWhenConfigured(t *testing.T) {
	e, store := newTestEngine()
	seedParams(t, store)

	if got := send(e, "/start"); !strings.Contains(got, "already running") {
		t.Fatalf("expected status message, got %q", got)
	}
	// The flow ended; a number must not be treated as a setup step.
	if got := send(e, "300"); !strings.Contains(got, "open question") {
		t.Fatalf("expected idle reply, got %q", got)
	}
}

func TestAdd_WithoutParamsAborts(t *testing.T) {
	e, store := newTestEngine()

	if got := send(e, "/add"); !strings.Contains(got, "/start") {
		t.Fatalf("expected guidance to run setup, got %q", got)
	}
	// The aborted flow must not capture the next number.
	send(e, "150")
	entries, err := store.ListEntries()
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestEntryFlow_ComputesPlanAndDiff(t *testing.T) {
	e, store := newTestEngine()
	seedParams(t, store) // started 2025-01-01, today is 2025-01-10 → day 10

	if got := send(e, "/add"); !strings.Contains(got, "Day 10") {
		t.Fatalf("expected day 10 prompt, got %q", got)
	}
	got := send(e, "150")
	if !strings.Contains(got, "✅") || !strings.Contains(got, "🔥") {
		t.Fatalf("expected ahead-of-plan result, got %q", got)
	}

	entries, err := store.ListEntries()
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Day != 10 {
		t.Errorf("day: expected 10, got %d", entry.Day)
	}
	// The clock reads noon; the stored entry must carry the bare date.
	if want := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC); !entry.Date.Equal(want) {
		t.Errorf("date: expected civil date %s, got %s", want, entry.Date)
	}
	if entry.Planned.StringFixed(3) != "121.899" {
		t.Errorf("planned: expected 121.899, got %s", entry.Planned.StringFixed(3))
	}
	if !entry.Diff.Equal(entry.Actual.Sub(entry.Planned)) {
		t.Errorf("diff mismatch: %s", entry.Diff)
	}
}

func TestEntryFlow_UpsertReplacesSameDay(t *testing.T) {
	e, store := newTestEngine()
	seedParams(t, store)

	send(e, "/add")
	send(e, "150")
	send(e, "/add")
	send(e, "180")

	entries, err := store.ListEntries()
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry after same-day re-entry, got %d", len(entries))
	}
	if !entries[0].Actual.Equal(decimal.NewFromInt(180)) {
		t.Errorf("expected latest actual 180, got %s", entries[0].Actual)
	}
}

func TestEntryFlow_DayFloorsToOne(t *testing.T) {
	e, store := newTestEngine()
	p := seedParams(t, store)
	p.StartDate = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) // in the future
	if err := store.ReplaceParams(p); err != nil {
		t.Fatalf("replace params: %v", err)
	}

	if got := send(e, "/add"); !strings.Contains(got, "Day 1") {
		t.Fatalf("expected day floored to 1, got %q", got)
	}
}

func TestEntryFlow_InvalidBalanceReprompts(t *testing.T) {
	e, store := newTestEngine()
	seedParams(t, store)

	send(e, "/add")
	if got := send(e, "lots"); !strings.Contains(got, "342.5") {
		t.Fatalf("expected re-prompt with example, got %q", got)
	}
	entries, _ := store.ListEntries()
	if len(entries) != 0 {
		t.Fatal("invalid input must not persist an entry")
	}
	// The flow is still open.
	if got := send(e, "150"); !strings.Contains(got, "Day 10") {
		t.Fatalf("expected saved result for day 10, got %q", got)
	}
}

func TestMotivationTagBoundaries(t *testing.T) {
	tests := []struct {
		diff string
		want string
	}{
		{"0.5", "🔥"},
		{"0", "⚡"},
		{"-0.5", "⚡"},
		{"-1", "⚡"}, // boundary is inclusive
		{"-1.5", "💪"},
	}
	for _, tt := range tests {
		diff, err := decimal.NewFromString(tt.diff)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.diff, err)
		}
		if got := motivationTag(diff); !strings.Contains(got, tt.want) {
			t.Errorf("diff %s: expected tag %q, got %q", tt.diff, tt.want, got)
		}
	}
}

func TestReminder_OpensEntryFlow(t *testing.T) {
	e, store := newTestEngine()
	seedParams(t, store)

	var texts []string
	for _, r := range e.HandleReminder(testChat, model.TriggerMorning) {
		texts = append(texts, r.Text)
	}
	joined := strings.Join(texts, "\n")
	if !strings.Contains(joined, "Good morning") || !strings.Contains(joined, "Day 10") {
		t.Fatalf("expected greeting and day prompt, got %q", joined)
	}

	send(e, "120")
	entries, _ := store.ListEntries()
	if len(entries) != 1 {
		t.Fatalf("expected entry recorded after reminder flow, got %d", len(entries))
	}
}

func TestReminder_WithoutParamsGivesGuidance(t *testing.T) {
	e, store := newTestEngine()

	replies := e.HandleReminder(testChat, model.TriggerEvening)
	joined := ""
	for _, r := range replies {
		joined += r.Text + "\n"
	}
	if !strings.Contains(joined, "/start") {
		t.Fatalf("expected setup guidance, got %q", joined)
	}
	entries, _ := store.ListEntries()
	if len(entries) != 0 {
		t.Fatal("expected no entries")
	}
}

func TestReset_ClearsEverything(t *testing.T) {
	e, store := newTestEngine()
	seedParams(t, store)
	send(e, "/add")
	send(e, "150")

	if got := send(e, "/reset"); !strings.Contains(got, "/start") {
		t.Fatalf("expected reset confirmation, got %q", got)
	}
	if p, _ := store.Params(); p != nil {
		t.Error("expected params cleared")
	}
	if entries, _ := store.ListEntries(); len(entries) != 0 {
		t.Error("expected entries cleared")
	}
}

func TestSession_ExpiresAbandonedDialog(t *testing.T) {
	e, store := newTestEngine()

	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	e.Now = func() time.Time { return now }

	send(e, "/start")
	send(e, "300")
	now = now.Add(sessionTTL + time.Minute)

	if got := send(e, "2025-01-01"); !strings.Contains(got, "open question") {
		t.Fatalf("expected stale dialog discarded, got %q", got)
	}
	if p, _ := store.Params(); p != nil {
		t.Error("abandoned setup must not persist anything")
	}
}

func TestCommand_CancelsOpenDialog(t *testing.T) {
	e, store := newTestEngine()

	send(e, "/start")
	send(e, "300")
	if got := send(e, "/stats"); !strings.Contains(got, "No data") {
		t.Fatalf("expected stats reply, got %q", got)
	}
	// The setup dialog is gone; a date now lands in the idle state.
	if got := send(e, "2025-01-01"); !strings.Contains(got, "open question") {
		t.Fatalf("expected idle reply, got %q", got)
	}
	if p, _ := store.Params(); p != nil {
		t.Error("cancelled setup must not persist anything")
	}
}

func TestReport_AttachesChartAndWorkbook(t *testing.T) {
	e, store := newTestEngine()
	seedParams(t, store)

	// Two days of entries so the chart can render.
	for day, balance := range map[int]string{1: "102", 2: "105"} {
		if err := store.UpsertEntry(&model.BalanceEntry{
			Day:     day,
			Date:    time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
			Actual:  mustDecimal(t, balance),
			Planned: mustDecimal(t, "102"),
			Diff:    decimal.Zero,
		}); err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}

	replies := e.HandleMessage(testChat, "/report")
	if len(replies) != 2 {
		t.Fatalf("expected chart + document replies, got %d", len(replies))
	}
	if replies[0].PhotoPNG == nil {
		t.Error("expected chart photo")
	}
	if replies[1].Document == nil || replies[1].DocumentName == "" {
		t.Error("expected spreadsheet document")
	}
}

func TestReport_SingleEntryFallsBackToText(t *testing.T) {
	e, store := newTestEngine()
	seedParams(t, store)
	if err := store.UpsertEntry(&model.BalanceEntry{
		Day:     1,
		Date:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Actual:  decimal.NewFromInt(102),
		Planned: decimal.NewFromInt(102),
		Diff:    decimal.Zero,
	}); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	replies := e.HandleMessage(testChat, "/report")
	if len(replies) != 2 {
		t.Fatalf("expected fallback text + document, got %d", len(replies))
	}
	if replies[0].PhotoPNG != nil {
		t.Error("expected no chart for a single entry")
	}
	if replies[1].Document == nil {
		t.Error("expected spreadsheet document regardless of chart")
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

// failingStore errors on every operation; used to verify that storage
// failures surface as a notice instead of advancing any flow.
type failingStore struct{}

var errBroken = errors.New("disk on fire")

func (failingStore) Params() (*model.MarathonParams, error)     { return nil, errBroken }
func (failingStore) ReplaceParams(*model.MarathonParams) error  { return errBroken }
func (failingStore) UpsertEntry(*model.BalanceEntry) error      { return errBroken }
func (failingStore) ListEntries() ([]model.BalanceEntry, error) { return nil, errBroken }
func (failingStore) ClearAll() error                            { return errBroken }
func (failingStore) Close() error                               { return nil }

func TestStorageFailureSurfacesNotice(t *testing.T) {
	e := NewEngine(failingStore{}, "Arthur", "$")
	e.Now = func() time.Time { return time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC) }

	for _, cmd := range []string{"/start", "/add", "/stats", "/report", "/reset"} {
		if got := send(e, cmd); !strings.Contains(got, "⚠️") {
			t.Errorf("%s: expected failure notice, got %q", cmd, got)
		}
	}
}
