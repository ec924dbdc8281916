package cache

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache backs the cache contract with an in-process store. Used in
// local mode and unit tests; values do not survive restarts, which matches
// the best-effort contract.
type MemoryCache struct {
	store *gocache.Cache
}

func NewMemory() *MemoryCache {
	return &MemoryCache{store: gocache.New(gocache.NoExpiration, 0)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	val, found := c.store.Get(key)
	if !found {
		return "", false, nil
	}
	s, ok := val.(string)
	if !ok {
		return "", false, nil
	}
	return s, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key, value string) error {
	c.store.Set(key, value, gocache.NoExpiration)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.store.Delete(key)
	return nil
}
