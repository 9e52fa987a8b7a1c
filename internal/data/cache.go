package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"walkforward-ensemble/internal/model"
)

type cacheEntry struct {
	returns   *model.Frame
	turnover  *model.Frame
	expiresAt time.Time
}

// DatasetCache keeps parsed frames in memory so repeated API requests
// against the same CSV pair don't re-read and re-parse the files.
// Entries are keyed by path and file mtime, so an updated file is a miss.
type DatasetCache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
}

var globalCache *DatasetCache
var cacheOnce sync.Once

// GetCache returns the global dataset cache, or nil when caching is
// disabled. Enable with ENABLE_DATASET_CACHE=true; DATASET_CACHE_TTL
// overrides the 1h default.
func GetCache() *DatasetCache {
	if os.Getenv("ENABLE_DATASET_CACHE") != "true" {
		return nil
	}
	cacheOnce.Do(func() {
		ttl := 1 * time.Hour
		if ttlStr := os.Getenv("DATASET_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}
		globalCache = &DatasetCache{
			store: make(map[string]*cacheEntry),
			ttl:   ttl,
		}
		go globalCache.cleanup()
	})
	return globalCache
}

// LoadAlignedCached is LoadAligned behind the dataset cache. With caching
// disabled it just delegates.
func LoadAlignedCached(returnsPath, turnoverPath string) (*model.Frame, *model.Frame, error) {
	cache := GetCache()
	if cache == nil {
		return LoadAligned(returnsPath, turnoverPath)
	}
	key, err := cacheKey(returnsPath, turnoverPath)
	if err != nil {
		return nil, nil, err
	}
	if ret, to, ok := cache.get(key); ok {
		return ret, to, nil
	}
	ret, to, err := LoadAligned(returnsPath, turnoverPath)
	if err != nil {
		return nil, nil, err
	}
	cache.set(key, ret, to)
	return ret, to, nil
}

func cacheKey(paths ...string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		if p == "" {
			fmt.Fprint(h, "-|")
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(h, "%s|%d|%d|", p, info.Size(), info.ModTime().UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (c *DatasetCache) get(key string) (*model.Frame, *model.Frame, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, nil, false
	}
	return e.returns, e.turnover, true
}

func (c *DatasetCache) set(key string, returns, turnover *model.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = &cacheEntry{
		returns:   returns,
		turnover:  turnover,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *DatasetCache) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, e := range c.store {
			if now.After(e.expiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}
