package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hunt.db")

	db, err := ConnectAndMigrate(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?);`, "k", []byte{1})
	require.NoError(t, err)

	version, dirty, err := Migrate(db)
	require.NoError(t, err, "migrating twice is a no-op")
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv;`).Scan(&n))
	assert.Equal(t, 1, n)
}
