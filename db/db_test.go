package db

import (
	"path/filepath"
	"testing"

	"cloudvault/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?"+sqliteOptions, sqliteDSN(""))
	assert.Equal(t, "vault.db?"+sqliteOptions, sqliteDSN("vault.db"))
	assert.Equal(t, "vault.db?cache=shared&"+sqliteOptions, sqliteDSN("vault.db?cache=shared"))
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")
	conn, err := Open(&config.Config{SQLiteFile: path}, zap.NewNop())
	require.NoError(t, err)

	var fk int
	require.NoError(t, conn.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
	assert.FileExists(t, path)
}
