package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema creates the key-value table used by the PostgreSQL store.
const Schema = `
	CREATE TABLE IF NOT EXISTS storefront_state (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// postgresStore implements Store on top of a single PostgreSQL table.
type postgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a PostgreSQL-backed store.
// The table from Schema must already exist.
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) Store {
	return &postgresStore{
		pool:   pool,
		logger: logger.With().Str("component", "postgres-store").Logger(),
	}
}

func (s *postgresStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM storefront_state WHERE key = $1`

	var value string
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to query state")
		return "", fmt.Errorf("failed to query state %s: %w", key, err)
	}

	return value, nil
}

func (s *postgresStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO storefront_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to upsert state")
		return fmt.Errorf("failed to upsert state %s: %w", key, err)
	}

	return nil
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM storefront_state WHERE key = $1`

	if _, err := s.pool.Exec(ctx, query, key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to delete state")
		return fmt.Errorf("failed to delete state %s: %w", key, err)
	}

	return nil
}
