package database

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 5 * time.Second

// NewPool opens the connection pool backing the PostgreSQL state store.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	logger = logger.With().Str("component", "state-db").Logger()

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 30 * time.Second

	logger.Info().
		Str("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)).
		Str("database", cfg.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("connecting to state database")

	start := time.Now()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.Warn().Err(err).Msg("state database unreachable")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Dur("connect_time", time.Since(start)).Msg("state database connected")

	return pool, nil
}

// Migrate creates the state table if it does not exist yet and reports how
// many keys it already holds.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, storage.Schema); err != nil {
		return fmt.Errorf("failed to create state table: %w", err)
	}

	var keys int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM storefront_state`).Scan(&keys); err != nil {
		return fmt.Errorf("failed to count persisted state: %w", err)
	}

	logger.Info().
		Str("component", "state-db").
		Int("persisted_keys", keys).
		Msg("state table ready")
	return nil
}
