package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sales-dashboard/internal/api"
	"sales-dashboard/internal/api/handlers"
	"sales-dashboard/internal/feed"
	"sales-dashboard/internal/metrics"
	"sales-dashboard/internal/repository"
	"sales-dashboard/internal/service"
	"sales-dashboard/pkg/config"
	"sales-dashboard/pkg/logger"
	"sales-dashboard/pkg/postgres"
	"sales-dashboard/pkg/redis"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

//go:generate swag init -d ../.. -g cmd/sales-dashboard/main.go -o ../../docs

// @title Sales Dashboard API
// @version 1.0
// @description Product sale feed ingestion with monthly statistics
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting sales dashboard service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Optional summary cache
	var cache service.SummaryCache
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		cache = redis.NewSummaryCache(rdb, cfg.Redis.TTL, appLogger)
		appLogger.Info("Summary cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
	}

	// Initialize repositories and services
	txRepo := repository.NewTransactionRepository(db, appLogger)
	feedClient := feed.NewClient(cfg.Feed.URL, cfg.Feed.Timeout, appLogger)

	ingestService := service.NewIngestService(feedClient, txRepo, cache, metrics.NewIngest(prometheus.DefaultRegisterer), appLogger)
	txService := service.NewTransactionService(txRepo, appLogger)
	statsService := service.NewStatisticsService(txRepo, cache, appLogger)

	// Initialize handlers
	txHandler := handlers.NewTransactionHandler(ingestService, txService, appLogger)
	statsHandler := handlers.NewStatisticsHandler(statsService, appLogger)

	// Setup router
	app := api.SetupRouter(txHandler, statsHandler, api.RouterConfig{
		Gatherer:     prometheus.DefaultGatherer,
		AccessLog:    true,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
