// Package texture locates texture dictionaries on disk and caches their
// decoded contents.
package texture

import (
	"errors"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"rw-repacker/internal/txd"
)

// ErrNotFound is returned for a dictionary name the index does not hold.
var ErrNotFound = errors.New("texture: dictionary not found")

// Resolver resolves a dictionary name to its decoded textures.
type Resolver interface {
	Dictionary(name string) (txd.Set, error)
}

// Cache is a concurrency-safe dictionary cache. Sets are shared between
// callers and must not be modified.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

type cacheEntry struct {
	set txd.Set
	err error // load failures are cached too
}

// NewCache creates a new dictionary cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Dictionary loads and caches a dictionary by name.
func (c *Cache) Dictionary(name string) (txd.Set, error) {
	path, ok := c.index.ResolvePath(name)
	if !ok {
		return nil, pkgerrors.Wrapf(ErrNotFound, "%q", name)
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.set, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	set, err := LoadDictionary(path, c.index.Overrides(stem(name)))

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.set, entry.err
	}
	c.items[path] = &cacheEntry{set: set, err: err}
	return set, err
}

// Len returns the number of dictionaries loaded so far.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func stem(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}
