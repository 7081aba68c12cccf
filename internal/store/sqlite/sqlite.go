// Package sqlite implements the content store on an embedded SQLite database.
// It backs local installs and the store tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bulkcat/internal/store"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// StoreImpl implements store.Store on top of database/sql and go-sqlite3.
type StoreImpl struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path. The schema is not
// created here; call Migrate.
func Open(path string) (*StoreImpl, error) {
	if path == "" {
		return nil, errors.New("sqlite database path cannot be empty")
	}
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: %w", err)
	}
	if strings.HasPrefix(path, ":memory:") {
		// every new connection would see its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.Open ping: %w", err)
	}
	return &StoreImpl{db: db}, nil
}

func (s *StoreImpl) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *StoreImpl) Close() {
	_ = s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		login        TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		role         TEXT NOT NULL DEFAULT 'subscriber',
		api_key      TEXT UNIQUE,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		slug       TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		title        TEXT NOT NULL DEFAULT '',
		post_type    TEXT NOT NULL DEFAULT 'post',
		status       TEXT NOT NULL DEFAULT 'draft',
		author_id    INTEGER REFERENCES users(id),
		published_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS post_categories (
		post_id     INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		PRIMARY KEY (post_id, category_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_post_categories_category ON post_categories (category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_listing ON posts (post_type, status, published_at DESC)`,
}

func (s *StoreImpl) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w\nSQL: %s", err, stmt)
		}
	}
	return nil
}

// isForeignKeyViolation reports whether err is SQLite's foreign key constraint failure.
func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

var _ store.Store = (*StoreImpl)(nil)
