package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"analytics-dashboard/config"
	"analytics-dashboard/snapshot"
	"analytics-dashboard/utils"
)

func main() {
	cfg := config.LoadSnapshot()
	logger := utils.NewLoggerWithOptions(cfg.LogLevel, cfg.AppEnv, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Dashboard snapshot starting ===")
	logger.Info("Target: %s | output: %s | concurrency: %d", cfg.DashboardURL, cfg.SnapshotDir, cfg.SnapshotConcurrency)

	capturer := snapshot.New(snapshot.Options{
		BaseURL:     cfg.DashboardURL,
		OutDir:      cfg.SnapshotDir,
		ChromeBin:   cfg.ChromeBin,
		Concurrency: cfg.SnapshotConcurrency,
		Interval:    cfg.SnapshotInterval,
		Timeout:     60 * time.Second,
		Retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}, logger)

	results, err := capturer.Run(ctx, snapshot.DefaultViews)
	if err != nil {
		logger.Error("Snapshot run failed: %v", err)
		os.Exit(1)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		logger.Error("%d of %d views could not be captured", failed, len(results))
		os.Exit(1)
	}
	logger.Info("Captured %d views into %s", len(results), cfg.SnapshotDir)
}
