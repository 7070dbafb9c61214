package cache

import "context"

// CountCache caches per-forger ring counts for read-side queries.
// Implementations must be safe for concurrent use.
type CountCache interface {
	// Get retrieves a cached count.
	// Returns the count and true if found, or 0 and false if not found.
	Get(ctx context.Context, key string) (int, bool)

	// Set stores a count under the given key.
	Set(ctx context.Context, key string, count int) error

	// Delete removes a single key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached counts.
	Clear(ctx context.Context) error

	// Close releases resources held by the cache.
	Close() error

	// Metrics returns cache statistics.
	Metrics() *Metrics
}

// Metrics holds cache performance statistics.
type Metrics struct {
	// Hits is the number of cache hits
	Hits uint64

	// Misses is the number of cache misses
	Misses uint64

	// KeysAdded is the number of keys added to cache
	KeysAdded uint64

	// KeysEvicted is the number of keys evicted from cache
	KeysEvicted uint64
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (m *Metrics) HitRate() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0.0
	}
	return float64(m.Hits) / float64(total)
}
