package rediscache

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"ringforge/pkg/cache"
)

// Cache implements a Redis-backed count cache. Counts live under a shared
// key prefix so Clear can drop them without touching unrelated keys.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration

	hits      atomic.Uint64
	misses    atomic.Uint64
	keysAdded atomic.Uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) { c.prefix = strings.Trim(prefix, ":") }
}

// WithTTL overrides the per-key expiry.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// New creates a Redis-backed count cache on an existing client.
func New(rdb *redis.Client, opts ...Option) *Cache {
	c := &Cache{
		rdb:    rdb,
		prefix: "ringforge:counts",
		ttl:    5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) key(k string) string {
	return c.prefix + ":" + k
}

// Get retrieves a cached count.
func (c *Cache) Get(ctx context.Context, key string) (int, bool) {
	count, err := c.rdb.Get(ctx, c.key(key)).Int()
	if err != nil {
		c.misses.Add(1)
		return 0, false
	}
	c.hits.Add(1)
	return count, true
}

// Set stores a count with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, count int) error {
	if err := c.rdb.Set(ctx, c.key(key), count, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache count for %q: %w", key, err)
	}
	c.keysAdded.Add(1)
	return nil
}

// Delete removes a single key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to drop cached count for %q: %w", key, err)
	}
	return nil
}

// Clear removes every key under the cache prefix.
func (c *Cache) Clear(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, c.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to clear cached counts: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached counts: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Metrics returns client-side cache statistics. Evictions happen inside
// Redis and are not visible here.
func (c *Cache) Metrics() *cache.Metrics {
	return &cache.Metrics{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		KeysAdded: c.keysAdded.Load(),
	}
}
