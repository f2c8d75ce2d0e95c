// Package badgecache keeps recently extracted badges keyed by URL.
package badgecache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/certcredit/internal/domain/model"
)

const defaultMaxSize = 1024

// Cache is a concurrency-safe URL -> badge cache. Only raw extraction results
// are cached; nothing derived from the catalog or the clock is stored.
type Cache struct {
	mu      sync.Mutex
	items   map[string]*list.Element // url -> element holding a model.Badge
	order   *list.List               // front = oldest insertion
	maxSize int

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache with configuration options.
func New(opts ...Option) *Cache {
	c := &Cache{
		maxSize: defaultMaxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached badge for url.
func (c *Cache) Get(_ context.Context, url string) (model.Badge, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[url]
	if !ok {
		c.misses.Add(1)
		return model.Badge{}, false
	}
	c.hits.Add(1)
	return el.Value.(model.Badge), true
}

// Put stores b under b.URL, replacing any previous value in place.
func (c *Cache) Put(_ context.Context, b model.Badge) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[b.URL]; ok {
		el.Value = b
		return
	}
	if c.maxSize > 0 && c.order.Len() >= c.maxSize {
		c.evictOldest()
	}
	c.items[b.URL] = c.order.PushBack(b)
}

// Len returns the number of cached badges.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns hit and miss counts since creation.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// evictOldest must be called with c.mu held.
func (c *Cache) evictOldest() {
	el := c.order.Front()
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.items, el.Value.(model.Badge).URL)
}
