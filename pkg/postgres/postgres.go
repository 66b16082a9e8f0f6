package postgres

import (
	"context"
	"fmt"

	"sales-dashboard/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Schema creates the record store. The primary key on id is the store-level
// uniqueness guarantee that ingestion relies on.
const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id           BIGINT PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL,
	price        DOUBLE PRECISION NOT NULL CHECK (price >= 0),
	category     TEXT NOT NULL,
	image        TEXT NOT NULL,
	sold         BOOLEAN NOT NULL,
	date_of_sale TEXT NOT NULL,
	month        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS transactions_month_idx ON transactions (month, sold);
`

func NewPool(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName),
	)

	return pool, nil
}

// Migrate applies Schema. Safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
