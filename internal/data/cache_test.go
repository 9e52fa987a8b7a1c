package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetSetExpiry(t *testing.T) {
	c := &DatasetCache{store: map[string]*cacheEntry{}, ttl: time.Hour}

	_, _, ok := c.get("k")
	assert.False(t, ok)

	c.set("k", nil, nil)
	_, _, ok = c.get("k")
	assert.True(t, ok)

	c.store["k"].expiresAt = time.Now().Add(-time.Second)
	_, _, ok = c.get("k")
	assert.False(t, ok, "expired entries are misses")
}

func TestCacheKeyTracksFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "returns.csv", "date,aaa\n2020-01-01,0.01\n")

	k1, err := cacheKey(path, "")
	require.NoError(t, err)
	k2, err := cacheKey(path, "")
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	// Longer content changes the file size, which changes the key.
	writeCSV(t, dir, "returns.csv", "date,aaa\n2020-01-01,0.01\n2020-01-02,0.02\n")
	k3, err := cacheKey(path, "")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	_, err = cacheKey("does/not/exist.csv")
	assert.Error(t, err)
}
