package resolve

import "sync"

// Cache stores resolved paths by command name. Entries are never evicted.
type Cache interface {
	Load(name string) (string, bool)
	Store(name, path string)
}

// MapCache is a Cache backed by a map. It is safe for concurrent use.
type MapCache struct {
	mu    sync.RWMutex
	paths map[string]string
}

// NewMapCache returns an empty MapCache.
func NewMapCache() *MapCache {
	return &MapCache{paths: make(map[string]string)}
}

// Load returns the cached path for name.
func (c *MapCache) Load(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	path, ok := c.paths[name]
	return path, ok
}

// Store records path for name. An existing entry is kept.
func (c *MapCache) Store(name, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.paths[name]; !ok {
		c.paths[name] = path
	}
}

// Len returns the number of cached names.
func (c *MapCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.paths)
}
