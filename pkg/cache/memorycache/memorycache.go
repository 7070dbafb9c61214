package memorycache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"ringforge/pkg/cache"
)

// entry represents a cached count with its expiry.
type entry struct {
	key       string
	count     int
	expiresAt time.Time
}

// Cache implements an in-process LRU count cache with TTL support.
// This cache is simple, predictable, and maintainable.
type Cache struct {
	mu sync.RWMutex

	// LRU tracking
	items     map[string]*list.Element // key -> list element
	evictList *list.List               // front = most recent, back = least recent

	// Configuration
	maxEntries int
	ttl        time.Duration

	// Metrics
	metrics *cacheMetrics
}

type cacheMetrics struct {
	hits        uint64
	misses      uint64
	keysAdded   uint64
	keysEvicted uint64
}

// Config holds configuration for the memory cache.
type Config struct {
	// MaxEntries is the maximum number of cached counts. When the limit is
	// exceeded, least recently used entries are evicted.
	MaxEntries int

	// TTL is the time-to-live for cached counts.
	TTL time.Duration

	// EnableMetrics enables collection of cache metrics.
	EnableMetrics bool
}

// New creates a new memory cache with the given configuration.
func New(config *Config) *Cache {
	c := &Cache{
		items:      make(map[string]*list.Element),
		evictList:  list.New(),
		maxEntries: config.MaxEntries,
		ttl:        config.TTL,
	}

	if config.EnableMetrics {
		c.metrics = &cacheMetrics{}
	}

	return c
}

// Get retrieves a cached count.
func (c *Cache) Get(ctx context.Context, key string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.items[key]
	if !exists {
		if c.metrics != nil {
			c.metrics.misses++
		}
		return 0, false
	}

	ent := elem.Value.(*entry)
	if time.Now().After(ent.expiresAt) {
		c.removeElement(elem)
		if c.metrics != nil {
			c.metrics.misses++
		}
		return 0, false
	}

	c.evictList.MoveToFront(elem)
	if c.metrics != nil {
		c.metrics.hits++
	}
	return ent.count, true
}

// Set stores a count under the given key.
func (c *Cache) Set(ctx context.Context, key string, count int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		ent := elem.Value.(*entry)
		ent.count = count
		ent.expiresAt = time.Now().Add(c.ttl)
		c.evictList.MoveToFront(elem)
		return nil
	}

	elem := c.evictList.PushFront(&entry{
		key:       key,
		count:     count,
		expiresAt: time.Now().Add(c.ttl),
	})
	c.items[key] = elem

	if c.metrics != nil {
		c.metrics.keysAdded++
	}

	// Evict LRU entries if over capacity
	for c.maxEntries > 0 && c.evictList.Len() > c.maxEntries {
		oldest := c.evictList.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
		if c.metrics != nil {
			c.metrics.keysEvicted++
		}
	}

	return nil
}

// Delete removes a single key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.removeElement(elem)
	}
	return nil
}

// Clear removes all cached counts.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.evictList.Init()
	return nil
}

// Close releases resources (no-op for memory cache).
func (c *Cache) Close() error {
	return nil
}

// Metrics returns cache statistics.
func (c *Cache) Metrics() *cache.Metrics {
	if c.metrics == nil {
		return &cache.Metrics{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return &cache.Metrics{
		Hits:        c.metrics.hits,
		Misses:      c.metrics.misses,
		KeysAdded:   c.metrics.keysAdded,
		KeysEvicted: c.metrics.keysEvicted,
	}
}

// Len returns the current number of cached counts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.evictList.Len()
}

// removeElement removes an element from cache (must be called with lock held).
func (c *Cache) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)
	ent := elem.Value.(*entry)
	delete(c.items, ent.key)
}
