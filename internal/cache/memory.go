package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

// MemoryCache is an in-process TTL cache for a single run.
type MemoryCache struct {
	store *bigcache.BigCache
}

// NewMemoryCache creates a cache whose entries expire after ttl.
func NewMemoryCache(ctx context.Context, ttl time.Duration) (*MemoryCache, error) {
	cfg := bigcache.DefaultConfig(ttl)
	cfg.Verbose = false
	store, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init memory cache: %w", err)
	}
	return &MemoryCache{store: store}, nil
}

// Get returns the cached value. A missing key is not an error.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := c.store.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores value under key.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	return c.store.Set(key, value)
}

// Close stops the eviction worker.
func (c *MemoryCache) Close() error {
	return c.store.Close()
}
