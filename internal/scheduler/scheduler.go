package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"MarathonTracker/internal/dialog"
	"MarathonTracker/internal/model"
	"MarathonTracker/internal/notifier"
)

// Scheduler fires the morning and evening balance reminders.
type Scheduler struct {
	Cron     *cron.Cron
	Engine   *dialog.Engine
	Notifier *notifier.TelegramNotifier
	Ctx      context.Context

	morningSpec string
	eveningSpec string

	mu   sync.Mutex
	jobs map[int64][]cron.EntryID
}

// NewScheduler creates a Scheduler running in the given location.
func NewScheduler(ctx context.Context, engine *dialog.Engine, tn *notifier.TelegramNotifier, loc *time.Location, morningSpec, eveningSpec string) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Engine:      engine,
		Notifier:    tn,
		Ctx:         ctx,
		morningSpec: morningSpec,
		eveningSpec: eveningSpec,
		jobs:        make(map[int64][]cron.EntryID),
	}
}

// Reschedule installs the two daily reminders for a chat, first removing
// any previously installed ones so re-registration stays idempotent.
func (s *Scheduler) Reschedule(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.jobs[chatID] {
		s.Cron.Remove(id)
	}
	s.jobs[chatID] = nil

	morningID, err := s.Cron.AddFunc(s.morningSpec, func() {
		s.fire(chatID, model.TriggerMorning)
	})
	if err != nil {
		return fmt.Errorf("register morning reminder: %w", err)
	}
	eveningID, err := s.Cron.AddFunc(s.eveningSpec, func() {
		s.fire(chatID, model.TriggerEvening)
	})
	if err != nil {
		s.Cron.Remove(morningID)
		return fmt.Errorf("register evening reminder: %w", err)
	}

	s.jobs[chatID] = []cron.EntryID{morningID, eveningID}
	log.Printf("[INFO] reminders scheduled for chat %d (morning %q, evening %q)", chatID, s.morningSpec, s.eveningSpec)
	return nil
}

func (s *Scheduler) fire(chatID int64, trigger model.Trigger) {
	log.Printf("[INFO] firing %s reminder for chat %d", trigger, chatID)
	for _, reply := range s.Engine.HandleReminder(chatID, trigger) {
		// Reminders run unattended, so transient send failures are retried.
		var err error
		if reply.PhotoPNG == nil && reply.Document == nil {
			err = s.Notifier.SendWithRetry(s.Ctx, chatID, reply.Text, 3)
		} else {
			err = s.Notifier.Deliver(chatID, reply)
		}
		if err != nil {
			log.Printf("[ERROR] deliver %s reminder: %v", trigger, err)
		}
	}
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}
