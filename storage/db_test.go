package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"orgledger/storage"
)

func testDatabase(t *testing.T, db storage.Database) {
	t.Helper()

	_, err := db.Get([]byte("missing"))
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, db.Put([]byte("a/one"), []byte("1")))
	require.NoError(t, db.Put([]byte("a/two"), []byte("2")))
	require.NoError(t, db.Put([]byte("b/one"), []byte("3")))

	value, err := db.Get([]byte("a/one"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), value)

	ok, err := db.Has([]byte("a/two"))
	require.NoError(t, err)
	require.True(t, ok)

	var keys []string
	require.NoError(t, db.IteratePrefix([]byte("a/"), func(key, value []byte) bool {
		keys = append(keys, string(key))
		return true
	}))
	require.Equal(t, []string{"a/one", "a/two"}, keys)

	// Early stop.
	keys = nil
	require.NoError(t, db.IteratePrefix([]byte("a/"), func(key, value []byte) bool {
		keys = append(keys, string(key))
		return false
	}))
	require.Len(t, keys, 1)

	require.NoError(t, db.Delete([]byte("a/one")))
	_, err = db.Get([]byte("a/one"))
	require.ErrorIs(t, err, storage.ErrNotFound)

	ok, err = db.Has([]byte("a/one"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemDB(t *testing.T) {
	testDatabase(t, storage.NewMemDB())
}

func TestLevelDB(t *testing.T) {
	db, err := storage.NewLevelDB(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	defer db.Close()
	testDatabase(t, db)
}
