package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"CalendarEffects/internal/chart"
	"CalendarEffects/internal/collector"
	"CalendarEffects/internal/config"
	"CalendarEffects/internal/logging"
	"CalendarEffects/internal/notifier"
	"CalendarEffects/internal/pipeline"
	"CalendarEffects/internal/recorder"
	"CalendarEffects/internal/scheduler"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("config validation", zap.Error(err))
	}
	start, end, err := cfg.DateRange(time.Now())
	if err != nil {
		logger.Fatal("date range", zap.Error(err))
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.CSVPath != "" {
		fetcher = collector.NewCSVFetcher(cfg.DataSource.CSVPath)
	} else {
		yf := collector.NewYahooFetcher(cfg.Proxy)
		if cfg.DataSource.BaseURL != "" {
			yf.BaseURL = cfg.DataSource.BaseURL
		}
		fetcher = yf
	}
	logger.Info("data source", zap.String("fetcher", fetcher.Name()))

	// Init price cache
	var cache recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite price cache failed, using noop", zap.Error(err))
			cache = recorder.NewNoopRecorder()
		} else {
			cache = sr
			defer sr.Close()
		}
	} else {
		cache = recorder.NewNoopRecorder()
	}

	col := collector.NewCollector(fetcher, cache, cfg.DataSource.Symbol, start, end, logger)
	col.Adjusted = *cfg.DataSource.Adjusted

	p := &pipeline.Pipeline{
		Collector: col,
		Alpha:     cfg.Analysis.Alpha,
		Console:   notifier.NewConsole(os.Stdout),
		ChartOptions: chart.Options{
			Width:  vg.Length(cfg.Chart.WidthIn) * vg.Inch,
			Height: vg.Length(cfg.Chart.HeightIn) * vg.Inch,
			DPI:    cfg.Chart.DPI,
		},
		Logger: logger,
	}
	if !cfg.Chart.Disabled {
		p.ChartPath = cfg.Chart.Output
	}
	if cfg.TelegramEnabled() {
		p.Telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One-shot run
	if cfg.Schedule.Cron == "" {
		if _, err := p.Run(ctx); err != nil {
			logger.Fatal("analysis failed", zap.Error(err))
		}
		return
	}

	// Scheduled runs recompute the range so "end: now" rolls forward.
	p.DateRange = cfg.DateRange
	sched := scheduler.NewScheduler(ctx, p, logger)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		logger.Fatal("register cron task", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, running analysis now")
		go sched.RunNow()
	}

	logger.Info("scheduler running, press Ctrl+C to stop", zap.String("cron", cfg.Schedule.Cron))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping")
	cancel()
}
