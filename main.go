package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"analytics-dashboard/config"
	"analytics-dashboard/predictor"
	"analytics-dashboard/services"
	"analytics-dashboard/storage"
	"analytics-dashboard/utils"
	"analytics-dashboard/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	logger := utils.NewLoggerWithOptions(cfg.LogLevel, cfg.AppEnv, os.Stdout)
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Bet Analytics Dashboard starting ===")
	logger.Info("Config: source: %s | table: %s | sessions: %s | model: %s",
		cfg.DataSource, cfg.Table, cfg.SessionStore, cfg.ModelPath)

	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}

	source, err := newSource(ctx, cfg, retry, logger)
	if err != nil {
		logger.Error("Failed to set up data source: %v", err)
		os.Exit(1)
	}
	defer source.Close()

	sessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to set up session store: %v", err)
		os.Exit(1)
	}
	defer sessions.Close()

	server := web.NewServer(web.Options{
		Source:     source,
		Sessions:   sessions,
		Models:     predictor.NewLoader(cfg.ModelPath, logger),
		Filters:    services.NewFilterEngine(logger),
		Metrics:    services.NewMetricsService(logger),
		Tables:     services.NewTableService(logger),
		Export:     storage.NewCSVWriter(),
		Logger:     logger,
		SessionTTL: cfg.SessionTTL,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}

func newSource(ctx context.Context, cfg *config.Config, retry *utils.RetryConfig, logger *utils.Logger) (storage.RecordSource, error) {
	switch cfg.DataSource {
	case config.SourcePostgres:
		return storage.NewPostgresSource(ctx, cfg.DSN(), cfg.Table, retry, logger)
	default:
		return storage.NewSupabaseSource(cfg.SupabaseURL, cfg.SupabaseKey, cfg.Table, cfg.FetchTimeout, logger), nil
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config) (storage.SessionStore, error) {
	switch cfg.SessionStore {
	case config.SessionRedis:
		return storage.NewRedisSessionStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
	default:
		return storage.NewMemorySessionStore(cfg.SessionTTL), nil
	}
}
