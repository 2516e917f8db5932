// Package cache provides the response cache used by the request client.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register driver
)

// Cacher defines the caching interface.
type Cacher interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte) error
}

// Nop is a Cacher that never stores anything.
type Nop struct{}

func (Nop) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }
func (Nop) Set(ctx context.Context, key string, val []byte) error {
	return nil
}

// SQLite implements Cacher on a local SQLite database.
// Only idempotent upstream fetches (article GETs) are cached; pipeline
// entities are request-scoped and never land here.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenSQLite opens (creating if needed) the cache database at path.
// A ttl of zero disables expiry.
func OpenSQLite(path string, ttl time.Duration) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping cache db: %w", err)
	}

	// WAL mode and a single connection avoid SQLITE_BUSY under concurrent requests.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS cache (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}

	return &SQLite{db: db, ttl: ttl}, nil
}

// Get returns the cached value for key, if present and not expired.
func (c *SQLite) Get(ctx context.Context, key string) ([]byte, bool) {
	row := c.db.QueryRowContext(ctx, "SELECT value, created_at FROM cache WHERE key = ?", key)

	var val []byte
	var createdAt time.Time
	if err := row.Scan(&val, &createdAt); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("Cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	if c.ttl > 0 && time.Since(createdAt) > c.ttl {
		return nil, false
	}
	return val, true
}

// Set stores the value for key, replacing any previous entry.
func (c *SQLite) Set(ctx context.Context, key string, val []byte) error {
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO cache (key, value, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)", key, val)
	return err
}

// Prune removes entries older than the cache TTL.
func (c *SQLite) Prune(ctx context.Context) error {
	if c.ttl <= 0 {
		return nil
	}
	deadline := time.Now().Add(-c.ttl).UTC().Format("2006-01-02 15:04:05")
	_, err := c.db.ExecContext(ctx, "DELETE FROM cache WHERE created_at < ?", deadline)
	return err
}

// Close closes the underlying database.
func (c *SQLite) Close() error {
	return c.db.Close()
}
