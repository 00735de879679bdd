// Package dumpcache avoids reparsing a dump file that hasn't changed since
// it was last loaded. It keys cache entries on an xxhash digest of the
// file's content rather than trusting mtime alone, the same fast-equality
// check the content store in the surrounding pack uses before falling back
// to a full comparison.
package dumpcache

import (
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/cgview/internal/costgraph"
)

// entry is one cached file's last-seen digest and the Part it produced.
type entry struct {
	digest uint64
	size   int64
	part   *costgraph.Part
}

// Cache maps dump file paths to the Part most recently parsed from them.
// Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Lookup returns the cached Part for path if its content still hashes to
// the digest recorded when it was cached. Any read or hashing failure is
// treated as a cache miss, never an error — the caller reparses instead.
func (c *Cache) Lookup(path string) (*costgraph.Part, bool) {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	if int64(len(data)) != e.size || xxhash.Sum64(data) != e.digest {
		return nil, false
	}
	return e.part, true
}

// Store records part as the cached result of parsing path, digesting its
// current content so a later Lookup can detect the file changing underfoot.
func (c *Cache) Store(path string, part *costgraph.Part) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[path] = entry{
		digest: xxhash.Sum64(data),
		size:   int64(len(data)),
		part:   part,
	}
	c.mu.Unlock()
	return nil
}

// Invalidate drops any cached entry for path, forcing the next Lookup to
// miss.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
