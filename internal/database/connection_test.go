package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeguardian/timeguardian/internal/models"
)

func TestConnectPragmas(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "pragma.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)

	var timeout int
	require.NoError(t, db.Raw("PRAGMA busy_timeout").Scan(&timeout).Error)
	assert.Equal(t, 5000, timeout)
}

func TestInitializeIdempotent(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Initialize())
	require.NoError(t, db.Initialize())

	assert.True(t, db.Migrator().HasTable(&models.VisibilitySample{}))
	assert.True(t, db.Migrator().HasTable(&models.ErrorLog{}))
	assert.True(t, db.Migrator().HasIndex(&models.VisibilitySample{}, appTimestampIndex))
}
