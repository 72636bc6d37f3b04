package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practiceadmin/internal/platform/config"
)

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: Postgres}
	lite := &DB{Dialect: SQLite}

	q := "SELECT * FROM users WHERE id = ? AND email = ?"
	assert.Equal(t, "SELECT * FROM users WHERE id = $1 AND email = $2", pg.Rebind(q))
	assert.Equal(t, q, lite.Rebind(q))
}

func TestOpenSQLiteAppliesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, config.StorageConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "admin.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range []string{"locations", "users", "token_revocations"} {
		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Zero(t, n)
	}

	// Migrating twice is harmless.
	require.NoError(t, db.Migrate(ctx))
}

func TestInsertOrder(t *testing.T) {
	assert.Equal(t, "seq", (&DB{Dialect: Postgres}).InsertOrder())
	assert.Equal(t, "rowid", (&DB{Dialect: SQLite}).InsertOrder())
}

func TestOpenRejectsMemoryDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Driver: config.DriverMemory})
	assert.Error(t, err)
}
