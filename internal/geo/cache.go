// Package geo resolves free-form manifest location strings to
// coordinates through a tiered strategy chain and computes great-circle
// distances between them. Resolution results are memoized, in memory or
// on disk, so repeated locations inside and across batches cost one
// lookup.
package geo

import "sync"

// Coordinates is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Cache is the memoization seam of the resolver. Implementations must
// be safe for concurrent use.
type Cache interface {
	// Get returns the coordinates stored under key, if any.
	Get(key string) (Coordinates, bool)
	// Put stores coords under key.
	Put(key string, coords Coordinates)
}

// MemoryCache is the default in-process Cache, a mutex-guarded map.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Coordinates
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]Coordinates),
	}
}

// Get returns the coordinates stored under key, if any.
func (c *MemoryCache) Get(key string) (Coordinates, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	coords, ok := c.entries[key]
	return coords, ok
}

// Put stores coords under key, overwriting any previous entry.
func (c *MemoryCache) Put(key string, coords Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = coords
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
