package primary

import (
	"context"
	"errors"
	"fmt"

	"bulkcat/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StoreImpl implements store.Store using PostgreSQL.
type StoreImpl struct {
	db *pgxpool.Pool
}

// NewPrimaryStore creates a new PostgreSQL primary store implementation.
func NewPrimaryStore(ctx context.Context, dsn string) (*StoreImpl, error) {
	if dsn == "" {
		return nil, errors.New("database DSN cannot be empty")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database DSN: %w", err)
	}

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &StoreImpl{db: dbpool}, nil
}

// Ping checks the database connection.
func (s *StoreImpl) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection pool.
func (s *StoreImpl) Close() {
	s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           BIGSERIAL PRIMARY KEY,
		login        TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		role         TEXT NOT NULL DEFAULT 'subscriber',
		api_key      TEXT UNIQUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		slug       TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id           BIGSERIAL PRIMARY KEY,
		title        TEXT NOT NULL DEFAULT '',
		post_type    TEXT NOT NULL DEFAULT 'post',
		status       TEXT NOT NULL DEFAULT 'draft',
		author_id    BIGINT REFERENCES users(id),
		published_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS post_categories (
		post_id     BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		PRIMARY KEY (post_id, category_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_post_categories_category ON post_categories (category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_listing ON posts (post_type, status, published_at DESC)`,
}

// Migrate creates the schema if it does not exist yet.
func (s *StoreImpl) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

var _ store.Store = (*StoreImpl)(nil)
