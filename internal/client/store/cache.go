package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"oceanwatch/internal/client/models"
	"oceanwatch/internal/dbx"
	"oceanwatch/internal/shared"
)

// APICache is the api_cache partition: last-known-good response bodies keyed
// by logical query, consulted for offline display.
type APICache struct {
	db dbx.DBTX
}

func NewAPICache(db dbx.DBTX) *APICache {
	return &APICache{db: db}
}

// Put stores the response body for key, overwriting any previous entry.
func (c *APICache) Put(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO api_cache (key, value, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, fetched_at = excluded.fetched_at`

	_, err := c.db.ExecContext(ctx, query, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to cache response for %q: %w", key, err)
	}
	return nil
}

// Get returns the cached entry for key, or shared.ErrorNotFound.
func (c *APICache) Get(ctx context.Context, key string) (*models.CacheEntry, error) {
	row := c.db.QueryRowContext(ctx, `SELECT value, fetched_at FROM api_cache WHERE key = ?`, key)

	e := &models.CacheEntry{Key: key}
	var fetchedAt string
	if err := row.Scan(&e.Value, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to read cache for %q: %w", key, err)
	}
	e.FetchedAt, _ = time.Parse(time.RFC3339Nano, fetchedAt)
	return e, nil
}
