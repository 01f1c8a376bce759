// Package cache provides an in-memory TTL cache for classification results.
package cache

import (
	"sync"
	"time"

	"github.com/procurelens/procurelens/internal/model"
)

type entry struct {
	expiresAt time.Time
	value     model.CategoryAssignment
}

// TTLCache is a last-writer-wins in-memory cache. Entries are advisory:
// expiry is checked lazily on read and swept opportunistically on write.
type TTLCache struct {
	entries map[string]entry
	now     func() time.Time
	mu      sync.RWMutex
	writes  int
}

// sweepEvery bounds how often Set scans for expired entries.
const sweepEvery = 512

// NewTTLCache creates an empty cache.
func NewTTLCache() *TTLCache {
	return &TTLCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached assignment for key if present and unexpired.
func (c *TTLCache) Get(key string) (model.CategoryAssignment, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		return model.CategoryAssignment{}, false
	}
	return e.value, true
}

// Set stores value under key for ttl. Overwriting an existing key is safe;
// concurrent writers for the same key compute equivalent values.
func (c *TTLCache) Set(key string, value model.CategoryAssignment, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}

	c.writes++
	if c.writes%sweepEvery == 0 {
		now := c.now()
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
