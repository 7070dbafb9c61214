package metrics

import (
	"sync"
	"sync/atomic"

	"ringforge/pkg/cache"
)

// Collector collects and aggregates metrics for the application.
type Collector struct {
	// HTTP metrics
	httpRequests sync.Map // map[string]*uint64 - route -> count
	httpErrors   sync.Map // map[string]*uint64 - route -> error count
	httpDuration sync.Map // map[string]*durationValue - route -> total duration in seconds

	// Admission metrics
	quotaRejections sync.Map // map[string]*uint64 - forger key -> rejected admissions

	// Count cache reference (optional, for querying cache-specific metrics)
	counts cache.CountCache
}

// durationValue holds duration with mutex for thread-safe updates.
type durationValue struct {
	mu           sync.Mutex
	totalSeconds float64
}

// CacheMetrics holds count cache performance metrics.
type CacheMetrics struct {
	Hits      uint64
	Misses    uint64
	HitRate   float64
	Evictions uint64
}

// APIMetrics holds HTTP request metrics.
type APIMetrics struct {
	RequestCounts        map[string]uint64
	ErrorCounts          map[string]uint64
	TotalDurationSeconds map[string]float64
	QuotaRejections      map[string]uint64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// SetCountCache sets the cache instance for collecting cache metrics.
func (c *Collector) SetCountCache(counts cache.CountCache) {
	c.counts = counts
}

// RecordRequest records an HTTP request.
func (c *Collector) RecordRequest(route string) {
	counter := c.getOrCreateCounter(&c.httpRequests, route)
	atomic.AddUint64(counter, 1)
}

// RecordError records an HTTP request that ended in an error status.
func (c *Collector) RecordError(route string) {
	counter := c.getOrCreateCounter(&c.httpErrors, route)
	atomic.AddUint64(counter, 1)
}

// RecordDuration records the duration of a request in seconds.
func (c *Collector) RecordDuration(route string, durationSeconds float64) {
	val, _ := c.httpDuration.LoadOrStore(route, &durationValue{})
	dv := val.(*durationValue)

	dv.mu.Lock()
	dv.totalSeconds += durationSeconds
	dv.mu.Unlock()
}

// RecordQuotaRejection records an admission rejected because the forger
// was at capacity.
func (c *Collector) RecordQuotaRejection(forgerKey string) {
	counter := c.getOrCreateCounter(&c.quotaRejections, forgerKey)
	atomic.AddUint64(counter, 1)
}

// GetCacheMetrics returns current count cache metrics.
func (c *Collector) GetCacheMetrics() *CacheMetrics {
	if c.counts == nil {
		return &CacheMetrics{}
	}

	metrics := c.counts.Metrics()
	if metrics == nil {
		return &CacheMetrics{}
	}

	return &CacheMetrics{
		Hits:      metrics.Hits,
		Misses:    metrics.Misses,
		HitRate:   metrics.HitRate(),
		Evictions: metrics.KeysEvicted,
	}
}

// GetAPIMetrics returns current HTTP metrics.
func (c *Collector) GetAPIMetrics() *APIMetrics {
	result := &APIMetrics{
		RequestCounts:        make(map[string]uint64),
		ErrorCounts:          make(map[string]uint64),
		TotalDurationSeconds: make(map[string]float64),
		QuotaRejections:      make(map[string]uint64),
	}

	// Collect request counts
	c.httpRequests.Range(func(key, value interface{}) bool {
		route := key.(string)
		result.RequestCounts[route] = atomic.LoadUint64(value.(*uint64))
		return true
	})

	// Collect error counts
	c.httpErrors.Range(func(key, value interface{}) bool {
		route := key.(string)
		result.ErrorCounts[route] = atomic.LoadUint64(value.(*uint64))
		return true
	})

	// Collect duration totals
	c.httpDuration.Range(func(key, value interface{}) bool {
		route := key.(string)
		dv := value.(*durationValue)
		dv.mu.Lock()
		result.TotalDurationSeconds[route] = dv.totalSeconds
		dv.mu.Unlock()
		return true
	})

	// Collect quota rejections
	c.quotaRejections.Range(func(key, value interface{}) bool {
		forgerKey := key.(string)
		result.QuotaRejections[forgerKey] = atomic.LoadUint64(value.(*uint64))
		return true
	})

	return result
}

// getOrCreateCounter gets or creates a counter for the given key.
func (c *Collector) getOrCreateCounter(m *sync.Map, key string) *uint64 {
	val, _ := m.LoadOrStore(key, new(uint64))
	return val.(*uint64)
}
