package resourcecache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Cache_roundTrip(t *testing.T) {
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache.sqlite"))
	require.NoError(t, err)
	defer cache.Close()

	_, found, err := cache.Get("https://tiles.example.com/0/0/0.png")
	require.NoError(t, err)
	assert.False(t, found)

	err = cache.Put("https://tiles.example.com/0/0/0.png", []byte{1, 2, 3})
	require.NoError(t, err)

	data, found, err := cache.Get("https://tiles.example.com/0/0/0.png")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte{1, 2, 3}, data)

	count, err := cache.EntryCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func Test_Cache_putReplaces(t *testing.T) {
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache.sqlite"))
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Put("u", []byte("old")))
	require.NoError(t, cache.Put("u", []byte("new")))

	data, found, err := cache.Get("u")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("new"), data)

	count, err := cache.EntryCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func Test_Cache_reopenSeesExistingEntries(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "cache.sqlite")

	cache, err := NewCache(filePath)
	require.NoError(t, err)
	require.NoError(t, cache.Put("u", []byte("v")))
	require.NoError(t, cache.Close())

	reopened, err := NewCache(filePath)
	require.NoError(t, err)
	defer reopened.Close()

	data, found, err := reopened.Get("u")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v"), data)
}
