package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FolioSentinel/internal/calendar"
	"FolioSentinel/internal/config"
	"FolioSentinel/internal/engine"
	"FolioSentinel/internal/model"
	"FolioSentinel/internal/notifier"
	"FolioSentinel/internal/provider"
	"FolioSentinel/internal/recorder"
	"FolioSentinel/internal/scheduler"
	"FolioSentinel/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	daemon := flag.Bool("daemon", false, "keep running and execute cycles on the configured cron schedule")
	flag.Parse()

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

	// Init store
	var docs store.Store
	switch cfg.Store.Kind {
	case "rest":
		docs = store.NewRESTStore(cfg.Store.BaseURL, cfg.Store.Auth, cfg.Proxy)
	default:
		fs, err := store.NewFileStore(cfg.Store.Dir)
		if err != nil {
			log.Fatalf("[FATAL] init file store: %v", err)
		}
		docs = fs
	}

	// Init provider
	var prices provider.Provider
	if cfg.Provider.Kind == "alphavantage" {
		prices = provider.NewAlphaVantageProvider(cfg.Provider.APIKey, cfg.Proxy)
	} else {
		prices = provider.NewYahooProvider(cfg.Proxy)
	}
	log.Printf("[INFO] price provider: %s", prices.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier (optional)
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	params := engine.Params{
		BenchmarkSymbol: cfg.Benchmark.Symbol,
		BatchSize:       cfg.Provider.BatchSize,
		BatchPause:      time.Duration(cfg.Provider.BatchPauseMS) * time.Millisecond,
		Retries:         cfg.Provider.Retries,
		RetryDelay:      time.Duration(cfg.Provider.RetryDelayMS) * time.Millisecond,
		CallTimeout:     time.Duration(cfg.Provider.TimeoutSec) * time.Second,
		StartingCapital: cfg.Benchmark.StartingCapital,
	}
	if cfg.Benchmark.InceptionDate != "" {
		params.InceptionDate = calendar.MustParse(cfg.Benchmark.InceptionDate)
	}
	eng := engine.New(prices, docs, params)

	// One context for the whole process: a SIGINT/SIGTERM cancels the in-flight
	// cycle's provider calls instead of waiting for the cycle to finish.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runOnce := func() error {
		start := time.Now()
		outcome, err := eng.RunCycle(ctx)
		if err != nil {
			log.Printf("[ERROR] sync cycle: %v", err)
		}
		if outcome == nil {
			return err
		}
		log.Printf("[INFO] cycle done in %v: %d symbols, %d failures, invested=%.2f value=%.2f",
			time.Since(start).Round(time.Millisecond), outcome.SymbolCount, len(outcome.Failures),
			outcome.Result.TotalInvested, outcome.Result.CurrentValue)

		record(rec, outcome)
		if tn != nil {
			report := notifier.FormatCycleReport(&outcome.Result, outcome.SymbolCount, len(outcome.Failures))
			if nerr := tn.SendWithRetry(ctx, report, 3); nerr != nil {
				log.Printf("[ERROR] send notification: %v", nerr)
			}
		}
		return err
	}

	if *daemon {
		if cfg.Schedule.SyncCron == "" {
			log.Fatalf("[FATAL] schedule.sync_cron is required in daemon mode")
		}
		sched := scheduler.New()
		if err := sched.RegisterSync(cfg.Schedule.SyncCron, func() { _ = runOnce() }); err != nil {
			log.Fatalf("[FATAL] register cron task: %v", err)
		}
		sched.Start()
		defer sched.Stop()

		log.Println("[INFO] FolioSentinel is running. Press Ctrl+C to stop.")
		<-ctx.Done()
		log.Println("[INFO] shutdown signal received, stopping...")
		return
	}

	if err := runOnce(); err != nil {
		os.Exit(1)
	}
}

func record(rec recorder.Recorder, outcome *engine.Outcome) {
	cr := &recorder.CycleRecord{
		SymbolCount:   outcome.SymbolCount,
		FetchedCount:  outcome.SymbolCount - len(outcome.Failures),
		FailedCount:   len(outcome.Failures),
		TotalInvested: outcome.Result.TotalInvested,
		CurrentValue:  outcome.Result.CurrentValue,
		UnrealizedPL:  outcome.Result.UnrealizedPL,
		RealizedPL:    outcome.Result.RealizedPL,
	}
	if cur, ok := outcome.Result.Anchors[model.AnchorCurrent]; ok {
		cr.CurrentReturnPct = cur.OurReturnPct
		cr.CurrentBenchPct = cur.BenchmarkReturnPct
	}
	if all, ok := outcome.Result.Anchors[model.AnchorAllTime]; ok {
		cr.AllTimeReturnPct = all.OurReturnPct
		cr.AllTimeBenchPct = all.BenchmarkReturnPct
	}
	failures := make([]recorder.FailureRecord, 0, len(outcome.Failures))
	for _, f := range outcome.Failures {
		failures = append(failures, recorder.FailureRecord{Symbol: f.Symbol, Reason: f.Reason})
	}
	if err := rec.RecordCycle(cr, failures); err != nil {
		log.Printf("[ERROR] record cycle: %v", err)
	}
}
