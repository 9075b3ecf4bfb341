package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenReadOnly_RejectsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	rw, err := OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, rw.Close())

	ro, err := OpenReadOnly(path)
	require.NoError(t, err)
	t.Cleanup(func() { ro.Close() })

	ok, err := HasTable(ro, "sessions")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HasTable(ro, "notes")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = ro.Exec(`CREATE TABLE notes (id INTEGER)`)
	assert.Error(t, err)
}

func TestOpenReadOnly_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := OpenReadOnly(path)
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}
