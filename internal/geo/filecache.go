package geo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultFileCacheTTL is applied when NewFileCache receives a
// non-positive TTL.
const DefaultFileCacheTTL = 30 * 24 * time.Hour

// entryNameBytes is how much of the key hash becomes the filename.
const entryNameBytes = 16

// fileCacheEntry is the on-disk form of one resolved location.
type fileCacheEntry struct {
	Location  string      `json:"location"`
	Coords    Coordinates `json:"coords"`
	CachedAt  time.Time   `json:"cached_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// FileCache is a Cache that persists entries as JSON files so separate
// runs share geocoding results. Lookups and stores are best effort: any
// I/O or decode problem reads as a miss and the resolver falls through
// to its providers.
type FileCache struct {
	dir string
	ttl time.Duration
	mu  sync.RWMutex
}

// NewFileCache creates dir if needed, drops entries that expired since
// the last run, and returns a cache whose new entries live for ttl.
// A non-positive ttl falls back to DefaultFileCacheTTL.
func NewFileCache(dir string, ttl time.Duration) (*FileCache, error) {
	if dir == "" {
		return nil, errors.New("file cache: directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("file cache: creating %s: %w", dir, err)
	}
	if ttl <= 0 {
		ttl = DefaultFileCacheTTL
	}

	c := &FileCache{dir: dir, ttl: ttl}
	c.sweep()
	return c, nil
}

// Get returns the coordinates stored under key if a fresh entry exists
// on disk. An expired entry is removed on sight and reads as a miss.
func (c *FileCache) Get(key string) (Coordinates, bool) {
	path := c.entryPath(key)

	c.mu.RLock()
	data, err := os.ReadFile(path)
	c.mu.RUnlock()
	if err != nil {
		return Coordinates{}, false
	}

	var entry fileCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Coordinates{}, false
	}
	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		_ = os.Remove(path)
		c.mu.Unlock()
		return Coordinates{}, false
	}
	return entry.Coords, true
}

// Put stores coords under key, replacing any previous entry. The entry
// is written to a temp file and renamed into place so a concurrent Get
// never observes a partial write.
func (c *FileCache) Put(key string, coords Coordinates) {
	now := time.Now().UTC()
	entry := fileCacheEntry{
		Location:  key,
		Coords:    coords,
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return
	}

	path := c.entryPath(key)

	c.mu.Lock()
	defer c.mu.Unlock()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
	}
}

// sweep removes entries that are expired or unreadable. Runs once at
// construction; expiry between sweeps is handled lazily by Get.
func (c *FileCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}

	now := time.Now()
	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		path := filepath.Join(c.dir, de.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var entry fileCacheEntry
		if err := json.Unmarshal(data, &entry); err != nil || now.After(entry.ExpiresAt) {
			_ = os.Remove(path)
		}
	}
}

// entryPath hashes key into a fixed-width filename. Manifest locations
// contain spaces, slashes, and unicode, none of which belong in a path.
func (c *FileCache) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:entryNameBytes])+".json")
}
