package lineindex

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a read-through index cache keyed by document version and base.
// Indexes are immutable once built, so cached values are shared across
// concurrent resolution calls; singleflight collapses concurrent builds of
// the same key into one.
type Cache struct {
	mu    sync.RWMutex
	byKey map[string]*Index
	group singleflight.Group
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{byKey: make(map[string]*Index)}
}

// Get returns the index for (version, base), building it from text on first
// use. The base participates in the key: two callers with different
// numbering conventions get distinct indexes over the same text.
func (c *Cache) Get(version, text string, base Base) *Index {
	key := fmt.Sprintf("%s#%d", version, base)
	c.mu.RLock()
	ix := c.byKey[key]
	c.mu.RUnlock()
	if ix != nil {
		return ix
	}
	v, _, _ := c.group.Do(key, func() (any, error) {
		built := New(text, base)
		c.mu.Lock()
		c.byKey[key] = built
		c.mu.Unlock()
		return built, nil
	})
	return v.(*Index)
}

// Invalidate drops every cached index for a document version, in all bases.
// Hosts call it when a new version of the document supersedes the old text.
func (c *Cache) Invalidate(version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range []Base{ZeroBased, OneBased} {
		delete(c.byKey, fmt.Sprintf("%s#%d", version, b))
	}
}

// Len reports the number of cached indexes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}
