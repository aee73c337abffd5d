// Package cache stores resolved configurations keyed by caller.
package cache

import "sync"

// Cache provides access to previously resolved configurations.
type Cache interface {
	Get(key string) (map[string]any, bool)
	Put(key string, cfg map[string]any)
	Reset()
}

// MemoryCache keeps configurations in-memory and guards access with a RWMutex.
// Entries are returned as stored, so every hit for a key yields the same map.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]map[string]any
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]map[string]any),
	}
}

// Get returns the configuration stored for key.
func (c *MemoryCache) Get(key string) (map[string]any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg, ok := c.entries[key]
	return cfg, ok
}

// Put stores cfg for key, replacing any previous entry.
func (c *MemoryCache) Put(key string, cfg map[string]any) {
	c.mu.Lock()
	c.entries[key] = cfg
	c.mu.Unlock()
}

// Reset drops every entry.
func (c *MemoryCache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]map[string]any)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
