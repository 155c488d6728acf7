package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"TickerLens/internal/collector"
	"TickerLens/internal/config"
	"TickerLens/internal/insight"
	"TickerLens/internal/notifier"
	"TickerLens/internal/scheduler"
	"TickerLens/internal/session"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TickerLens starting...")

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

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init fetcher
	fetcher, err := collector.NewFetcher(cfg)
	if err != nil {
		log.Fatalf("[FATAL] init fetcher: %v", err)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher)

	// Init question answering; a missing key leaves the rest of the bot usable
	var answerer insight.Answerer
	gemini, err := insight.NewGeminiAnswerer(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
	switch {
	case errors.Is(err, insight.ErrMissingCredential):
		log.Println("[WARN] GEMINI_API_KEY not set, /ask is disabled")
		answerer = insight.Unconfigured{}
	case err != nil:
		log.Fatalf("[FATAL] init gemini: %v", err)
	default:
		log.Printf("[INFO] question answering: %s", cfg.AI.Model)
		answerer = gemini
	}

	// Init per-chat sessions
	var factory session.LogFactory
	if cfg.Session.Store == config.StoreSQLite {
		factory = session.NewSQLiteLogFactory()
	}
	sessions := session.NewManager(factory)
	defer func() {
		if err := sessions.Close(); err != nil {
			log.Printf("[ERROR] close sessions: %v", err)
		}
	}()
	log.Printf("[INFO] session store: %s", cfg.Session.Store)

	// Init Telegram notifier
	tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Proxy)
	if err != nil {
		log.Fatalf("[FATAL] init telegram: %v", err)
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, sessions, answerer, tn)
	sched.Watchlist = cfg.Watchlist
	sched.ChatID = cfg.Telegram.ChatID
	if err := sched.RegisterDigest(cfg.Schedule.DigestCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" && len(cfg.Watchlist) > 0 && cfg.Telegram.ChatID != 0 {
		log.Println("[INFO] RUN_ON_START enabled, sending digest now")
		go sched.RunDigestNow()
	}

	log.Println("[INFO] TickerLens is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TickerLens stopped")
}
