package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"oceanwatch/internal/dbx"
)

// Metadata is a small key/value partition for client bookkeeping such as the
// generated device id.
type Metadata struct {
	db dbx.DBTX
}

func NewMetadata(db dbx.DBTX) *Metadata {
	return &Metadata{db: db}
}

// Get returns the value for key, or nil when the key is absent.
func (m *Metadata) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := m.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

// Set stores the value for key, overwriting any previous value.
func (m *Metadata) Set(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := m.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}
