package geo_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/geo"
)

func cacheFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, de := range entries {
		if filepath.Ext(de.Name()) == ".json" {
			names = append(names, de.Name())
		}
	}
	return names
}

func TestFileCachePutGet(t *testing.T) {
	dir := t.TempDir()
	c, err := geo.NewFileCache(dir, time.Hour)
	require.NoError(t, err)

	_, ok := c.Get("SGSIN")
	assert.False(t, ok)

	want := geo.Coordinates{Lat: 1.364420, Lon: 103.991531}
	c.Put("SGSIN", want)

	got, ok := c.Get("SGSIN")
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Len(t, cacheFiles(t, dir), 1)
}

func TestFileCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := geo.NewFileCache(dir, time.Hour)
	require.NoError(t, err)
	first.Put("KRICN", geo.Coordinates{Lat: 37.460190, Lon: 126.440696})

	second, err := geo.NewFileCache(dir, time.Hour)
	require.NoError(t, err)

	got, ok := second.Get("KRICN")
	require.True(t, ok)
	assert.InDelta(t, 37.460190, got.Lat, 1e-9)
	assert.InDelta(t, 126.440696, got.Lon, 1e-9)
}

func TestFileCacheEntryFormat(t *testing.T) {
	dir := t.TempDir()
	c, err := geo.NewFileCache(dir, time.Hour)
	require.NoError(t, err)

	c.Put("16 Tuas Avenue 7, Singapore", geo.Coordinates{Lat: 1.32, Lon: 103.65})

	names := cacheFiles(t, dir)
	require.Len(t, names, 1)

	data, err := os.ReadFile(filepath.Join(dir, names[0]))
	require.NoError(t, err)

	var entry struct {
		Location string `json:"location"`
		Coords   struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coords"`
		CachedAt  time.Time `json:"cached_at"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(data, &entry))

	assert.Equal(t, "16 Tuas Avenue 7, Singapore", entry.Location)
	assert.InDelta(t, 1.32, entry.Coords.Lat, 1e-9)
	assert.InDelta(t, 103.65, entry.Coords.Lon, 1e-9)
	assert.Equal(t, time.Hour, entry.ExpiresAt.Sub(entry.CachedAt))
}

func TestFileCacheExpiredEntryIsRemoved(t *testing.T) {
	dir := t.TempDir()
	c, err := geo.NewFileCache(dir, 50*time.Millisecond)
	require.NoError(t, err)

	c.Put("stale", geo.Coordinates{Lat: 1, Lon: 2})
	time.Sleep(120 * time.Millisecond)

	_, ok := c.Get("stale")
	assert.False(t, ok)
	assert.Empty(t, cacheFiles(t, dir))
}

func TestFileCacheSweepDropsExpiredAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	first, err := geo.NewFileCache(dir, 50*time.Millisecond)
	require.NoError(t, err)
	first.Put("old-a", geo.Coordinates{Lat: 1, Lon: 1})
	first.Put("old-b", geo.Coordinates{Lat: 2, Lon: 2})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.json"), []byte("{not json"), 0o600))

	time.Sleep(120 * time.Millisecond)

	// Construction sweeps everything unusable from the previous run.
	_, err = geo.NewFileCache(dir, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, cacheFiles(t, dir))
}

func TestFileCacheAwkwardKeys(t *testing.T) {
	c, err := geo.NewFileCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	keys := []string{
		"a/b\\c:d",
		"  padded  ",
		"Zürich Flughafen",
		"NO.88, KEYUAN ROAD/ZONE A",
	}
	for i, key := range keys {
		c.Put(key, geo.Coordinates{Lat: float64(i), Lon: float64(i)})
	}
	for i, key := range keys {
		got, ok := c.Get(key)
		require.True(t, ok, "key %q", key)
		assert.InDelta(t, float64(i), got.Lat, 1e-9)
	}
}

func TestFileCacheRequiresDirectory(t *testing.T) {
	_, err := geo.NewFileCache("", time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestFileCacheConcurrentAccess(t *testing.T) {
	c, err := geo.NewFileCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Put("shared", geo.Coordinates{Lat: float64(n), Lon: float64(j)})
				c.Get("shared")
			}
		}(i)
	}
	wg.Wait()

	_, ok := c.Get("shared")
	assert.True(t, ok)
}
