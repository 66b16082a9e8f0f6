// Command ingest runs a single feed import against the configured database
// and exits non-zero if it fails.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sales-dashboard/internal/feed"
	"sales-dashboard/internal/repository"
	"sales-dashboard/internal/service"
	"sales-dashboard/pkg/config"
	"sales-dashboard/pkg/logger"
	"sales-dashboard/pkg/postgres"
	"sales-dashboard/pkg/redis"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := run(ctx, cfg, appLogger)
	logger.Sync()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) int {
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", zap.Error(err))
		return 1
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		appLogger.Error("Failed to migrate database", zap.Error(err))
		return 1
	}

	// Running servers must not keep serving summaries computed before the import.
	var cache service.SummaryCache
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			appLogger.Warn("Summary cache unavailable, skipping invalidation", zap.Error(err))
		} else {
			defer rdb.Close()
			cache = redis.NewSummaryCache(rdb, cfg.Redis.TTL, appLogger)
		}
	}

	txRepo := repository.NewTransactionRepository(db, appLogger)
	feedClient := feed.NewClient(cfg.Feed.URL, cfg.Feed.Timeout, appLogger)
	ingestService := service.NewIngestService(feedClient, txRepo, cache, nil, appLogger)

	appLogger.Info("Starting feed import", zap.String("feed_url", cfg.Feed.URL))
	resp, err := ingestService.Ingest(ctx)
	if err != nil {
		appLogger.Error("Feed import failed", zap.Error(err))
		return 1
	}

	appLogger.Info(resp.Message,
		zap.String("run_id", resp.RunID),
		zap.Int("inserted", resp.InsertedCount),
		zap.Int("skipped", resp.SkippedCount),
	)
	return 0
}
