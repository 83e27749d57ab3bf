package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"MarathonTracker/internal/dialog"
	"MarathonTracker/internal/ledger"
	"MarathonTracker/internal/model"
	"MarathonTracker/internal/notifier"
)

func newTestScheduler(morning, evening string) *Scheduler {
	engine := dialog.NewEngine(ledger.NewMemoryStore(), "Arthur", "$")
	tn := notifier.NewTelegramNotifier("test-token", "")
	return NewScheduler(context.Background(), engine, tn, time.UTC, morning, evening)
}

func TestReschedule_Idempotent(t *testing.T) {
	s := newTestScheduler("0 0 9 * * *", "0 0 21 * * *")

	if err := s.Reschedule(1); err != nil {
		t.Fatalf("first reschedule: %v", err)
	}
	if err := s.Reschedule(1); err != nil {
		t.Fatalf("second reschedule: %v", err)
	}
	if got := len(s.Cron.Entries()); got != 2 {
		t.Errorf("expected 2 cron entries after re-registration, got %d", got)
	}

	// Another chat gets its own pair.
	if err := s.Reschedule(2); err != nil {
		t.Fatalf("reschedule second chat: %v", err)
	}
	if got := len(s.Cron.Entries()); got != 4 {
		t.Errorf("expected 4 cron entries for two chats, got %d", got)
	}
}

func TestReschedule_RejectsBadSpec(t *testing.T) {
	s := newTestScheduler("not a cron spec", "0 0 21 * * *")
	if err := s.Reschedule(1); err == nil {
		t.Fatal("expected error for invalid morning spec")
	}
	if got := len(s.Cron.Entries()); got != 0 {
		t.Errorf("expected no entries after failed registration, got %d", got)
	}

	// A bad evening spec must not leave the morning job behind.
	s = newTestScheduler("0 0 9 * * *", "never")
	if err := s.Reschedule(1); err == nil {
		t.Fatal("expected error for invalid evening spec")
	}
	if got := len(s.Cron.Entries()); got != 0 {
		t.Errorf("expected no entries after partial failure, got %d", got)
	}
}

func TestFire_RetriesReminderSends(t *testing.T) {
	// First request fails; the reminder must still reach the chat.
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	store := ledger.NewMemoryStore()
	if err := store.ReplaceParams(&model.MarathonParams{
		StartBalance: decimal.NewFromInt(100),
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		DailyPercent: decimal.NewFromInt(2),
		DurationDays: 90,
	}); err != nil {
		t.Fatalf("seed params: %v", err)
	}
	engine := dialog.NewEngine(store, "Arthur", "$")
	tn := notifier.NewTelegramNotifier("test-token", "")
	tn.APIBase = server.URL
	s := NewScheduler(context.Background(), engine, tn, time.UTC, "0 0 9 * * *", "0 0 21 * * *")

	s.fire(1, model.TriggerMorning)

	// Greeting and day prompt, plus one retried attempt for the greeting.
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 requests (1 failed + 2 delivered), got %d", got)
	}
}
