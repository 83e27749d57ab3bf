package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarathonTracker/internal/config"
	"MarathonTracker/internal/dialog"
	"MarathonTracker/internal/ledger"
	"MarathonTracker/internal/notifier"
	"MarathonTracker/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MarathonTracker starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("[FATAL] load timezone: %v", err)
	}

	// Open the ledger
	var store ledger.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := ledger.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] open sqlite ledger failed, using in-memory: %v", err)
			store = ledger.NewMemoryStore()
		} else {
			store = ss
			defer ss.Close()
		}
	} else {
		log.Println("[WARN] no sqlite path configured, ledger is in-memory only")
		store = ledger.NewMemoryStore()
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Proxy)

	// Init dialog engine
	engine := dialog.NewEngine(store, cfg.Profile.UserName, cfg.Profile.Currency)
	engine.Now = func() time.Time { return time.Now().In(loc) }

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler and install reminders for the configured chat
	sched := scheduler.NewScheduler(ctx, engine, tn, loc, cfg.Schedule.MorningCron, cfg.Schedule.EveningCron)
	engine.Sched = sched
	if err := sched.Reschedule(cfg.Telegram.ChatID); err != nil {
		log.Fatalf("[FATAL] register reminders: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, engine.HandleMessage)
	log.Println("[INFO] Telegram polling started")

	log.Println("[INFO] MarathonTracker is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] MarathonTracker stopped")
}
