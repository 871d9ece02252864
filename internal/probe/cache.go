package probe

import (
	"os"
	"sync"
	"time"
)

// cacheEntry pins a probe result to the file identity it was taken from.
// The entry is valid only while the file's size and modification time still
// match; file mutation invalidates it implicitly on the next lookup.
type cacheEntry struct {
	size    int64
	modTime time.Time
	info    StreamInfo
}

// cache is a bounded path-keyed mapping evicted oldest-insertion-first.
// Guarded by a mutex so callers may probe from multiple goroutines.
type cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]cacheEntry
	order    []string // insertion order for eviction
}

func newCache(capacity int) *cache {
	return &cache{
		capacity: capacity,
		entries:  make(map[string]cacheEntry, capacity),
	}
}

// get returns the cached info for path when the file's current size and
// modification time match the entry. A stat failure counts as a miss.
func (c *cache) get(path string) (StreamInfo, bool) {
	c.mu.Lock()
	entry, ok := c.entries[path]
	c.mu.Unlock()
	if !ok {
		return StreamInfo{}, false
	}

	fi, err := os.Stat(path)
	if err != nil || fi.Size() != entry.size || !fi.ModTime().Equal(entry.modTime) {
		return StreamInfo{}, false
	}
	return entry.info, true
}

// put records info under the file's current identity. Best-effort: a stat
// failure is swallowed and nothing is written. Exceeding capacity evicts
// the oldest entry.
func (c *cache) put(path string, info StreamInfo) {
	fi, err := os.Stat(path)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[path]; !exists {
		c.order = append(c.order, path)
	}
	c.entries[path] = cacheEntry{size: fi.Size(), modTime: fi.ModTime(), info: info}

	for len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// len reports the number of live entries.
func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
