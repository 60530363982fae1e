// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

// Package cache adapts an in-process TTL cache for the transcript read path.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a TTL-bounded in-process cache. Entries (including negative
// nil entries) expire after the configured TTL.
type MemoryCache struct {
	store *gocache.Cache
	ttl   time.Duration
}

// NewMemoryCache creates a cache whose entries live for ttl. Expired entries
// are purged by a background janitor twice per TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		store: gocache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

// Get returns the cached value for key, if present and unexpired. A stored
// nil value is returned with found=true: it is a negative entry.
func (c *MemoryCache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores a value under key with the cache's TTL. A nil value records a
// negative entry.
func (c *MemoryCache) Set(key string, value any) {
	c.store.Set(key, value, c.ttl)
}

// Delete evicts key from the cache.
func (c *MemoryCache) Delete(key string) {
	c.store.Delete(key)
}
