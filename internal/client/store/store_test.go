package store

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"oceanwatch/internal/logging"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "client.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_CreatesAllPartitions(t *testing.T) {
	s := openTestStore(t)

	require.False(t, s.Degraded())
	for _, table := range []string{"offline_reports", "offline_sos", "api_cache", "metadata", "goose_db_version"} {
		require.True(t, tableExists(t, s.DB(), table), "expected table %s", table)
	}
}

func TestOpen_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "client.db")

	s, err := Open(ctx, dsn, testLogger())
	require.NoError(t, err)
	_, err = s.Meta.Get(ctx, "device_id")
	require.NoError(t, err)
	require.NoError(t, s.Meta.Set(ctx, "device_id", []byte("abc")))
	require.NoError(t, s.Close())

	s2, err := Open(ctx, dsn, testLogger())
	require.NoError(t, err)
	defer s2.Close()

	v, err := s2.Meta.Get(ctx, "device_id")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), v)
}

func TestOpen_DegradesToMemoryWhenDSNUnusable(t *testing.T) {
	// Point the DSN into a directory that does not exist; sqlite cannot
	// create the file there.
	dsn := filepath.Join(t.TempDir(), "no", "such", "dir", "client.db")

	s, err := Open(context.Background(), dsn, testLogger())
	require.NoError(t, err)
	defer s.Close()

	require.True(t, s.Degraded())

	// The degraded store still works, it is just not durable.
	require.NoError(t, s.Meta.Set(context.Background(), "k", []byte("v")))
	v, err := s.Meta.Get(context.Background(), "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	require.True(t, tableExists(t, db, "offline_reports"))
}

func TestGetOrSetMeta_GeneratesOnce(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	calls := 0
	gen := func() []byte {
		calls++
		return []byte("device-abc")
	}

	first, err := s.GetOrSetMeta(ctx, "device_id", gen)
	require.NoError(t, err)
	require.Equal(t, []byte("device-abc"), first)

	second, err := s.GetOrSetMeta(ctx, "device_id", gen)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls)

	// The value landed in the metadata partition proper.
	v, err := s.Meta.Get(ctx, "device_id")
	require.NoError(t, err)
	require.Equal(t, first, v)
}
