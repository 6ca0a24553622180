// Package store implements the local durable store: an embedded SQLite
// database with one table per partition (offline_reports, offline_sos,
// api_cache, metadata) that survives restarts of the client.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"oceanwatch/internal/client/store/migrations"
	"oceanwatch/internal/dbx"
	"oceanwatch/internal/logging"
	"oceanwatch/internal/shared"

	"github.com/pressly/goose/v3"
)

// memoryDSN is the fallback database used when the configured one cannot be
// opened. Shared cache keeps the schema visible across pool connections.
const memoryDSN = "file:oceanwatch-degraded?mode=memory&cache=shared"

// Store owns the database handle and exposes one repository per partition.
type Store struct {
	db       *sql.DB
	degraded bool
	log      logging.Logger

	Reports *ReportQueue
	SOS     *SOSQueue
	Cache   *APICache
	Meta    *Metadata
}

// RunMigrations applies the embedded goose migrations. Safe to call
// repeatedly; migrations are additive so existing partitions are never
// dropped on upgrade.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open establishes the store at dsn, creating missing partitions on first
// use. If the configured database cannot be opened or migrated, the store
// degrades to a best-effort in-memory database instead of failing: captures
// keep working but durability across restarts is lost. Only a store that
// cannot be opened at all yields ErrorStoreUnavailable.
func Open(ctx context.Context, dsn string, log logging.Logger) (*Store, error) {
	db, err := openAndMigrate(ctx, dsn, false)
	if err != nil {
		log.Warn(ctx, "local store unusable, degrading to memory-only mode", "dsn", dsn, "error", err)

		db, err = openAndMigrate(ctx, memoryDSN, true)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrorStoreUnavailable, err)
		}

		return newStore(db, true, log), nil
	}

	return newStore(db, false, log), nil
}

func openAndMigrate(ctx context.Context, dsn string, pinConn bool) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if pinConn {
		// Shared-cache in-memory databases vanish when the pool drops
		// to zero connections; pin a single one for the store's life.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxIdleTime(0)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newStore(db *sql.DB, degraded bool, log logging.Logger) *Store {
	return &Store{
		db:       db,
		degraded: degraded,
		log:      log,
		Reports:  NewReportQueue(db),
		SOS:      NewSOSQueue(db),
		Cache:    NewAPICache(db),
		Meta:     NewMetadata(db),
	}
}

// GetOrSetMeta returns the metadata value for key, initializing it from gen
// when absent. The read and the write run in one transaction so concurrent
// first calls agree on a single value.
func (s *Store) GetOrSetMeta(ctx context.Context, key string, gen func() []byte) ([]byte, error) {
	var out []byte
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		m := NewMetadata(tx)
		v, err := m.Get(ctx, key)
		if err != nil {
			return err
		}
		if len(v) > 0 {
			out = v
			return nil
		}
		out = gen()
		return m.Set(ctx, key, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Degraded reports whether the store fell back to memory-only mode.
func (s *Store) Degraded() bool {
	return s.degraded
}

// DB exposes the underlying handle for tests and migrations tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}
