package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationManager_UpDown(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	mgr, err := NewMigrationManager(dbPath)
	require.NoError(t, err)
	defer func() { _ = mgr.Close() }()

	version, _, err := mgr.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	require.NoError(t, mgr.Up())
	require.NoError(t, mgr.Up(), "re-running Up should be a no-op")

	version, dirty, err := mgr.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, mgr.Down())
}

func TestDatabaseURL(t *testing.T) {
	assert.Equal(t, "sqlite://relative/history.db", databaseURL(filepath.Join("relative", "history.db")))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(nil)
	assert.Error(t, err)

	_, err = Open(&Config{})
	assert.Error(t, err)
}
