package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusExporter exports metrics to Prometheus format.
type PrometheusExporter struct {
	collector *Collector

	// Prometheus metrics
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	cacheHitRate    prometheus.Gauge
	cacheEvictions  prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpErrors      *prometheus.CounterVec
	quotaRejections *prometheus.CounterVec

	// Last cache snapshot, so Update can feed the counters as deltas.
	lastCacheHits      uint64
	lastCacheMisses    uint64
	lastCacheEvictions uint64
}

// NewPrometheusExporter creates a new Prometheus exporter.
func NewPrometheusExporter(collector *Collector) *PrometheusExporter {
	return &PrometheusExporter{
		collector: collector,
		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ringforge_count_cache_hits_total",
			Help: "Total number of count cache hits",
		}),
		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ringforge_count_cache_misses_total",
			Help: "Total number of count cache misses",
		}),
		cacheHitRate: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ringforge_count_cache_hit_rate",
			Help: "Current count cache hit rate (0.0 to 1.0)",
		}),
		cacheEvictions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ringforge_count_cache_evictions_total",
			Help: "Total number of count cache evictions",
		}),
		httpRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ringforge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route"},
		),
		httpDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ringforge_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"route"},
		),
		httpErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ringforge_http_errors_total",
				Help: "Total number of HTTP requests answered with an error status",
			},
			[]string{"route"},
		),
		quotaRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ringforge_quota_rejections_total",
				Help: "Total number of ring admissions rejected at forger capacity",
			},
			[]string{"forger"},
		),
	}
}

// Update refreshes cache metrics from the collector: the hit-rate gauge
// plus deltas into the hit/miss/eviction counters. HTTP counters are fed
// by the middleware. Update is called from a single goroutine; it should
// run periodically (e.g., every 10 seconds).
func (e *PrometheusExporter) Update() {
	cacheMetrics := e.collector.GetCacheMetrics()
	e.cacheHitRate.Set(cacheMetrics.HitRate)

	if d := cacheMetrics.Hits - e.lastCacheHits; d > 0 {
		e.cacheHits.Add(float64(d))
		e.lastCacheHits = cacheMetrics.Hits
	}
	if d := cacheMetrics.Misses - e.lastCacheMisses; d > 0 {
		e.cacheMisses.Add(float64(d))
		e.lastCacheMisses = cacheMetrics.Misses
	}
	if d := cacheMetrics.Evictions - e.lastCacheEvictions; d > 0 {
		e.cacheEvictions.Add(float64(d))
		e.lastCacheEvictions = cacheMetrics.Evictions
	}
}

// StartRefresher calls Update on a fixed interval until the returned stop
// function is called. Stop is idempotent.
func (e *PrometheusExporter) StartRefresher(interval time.Duration) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.Update()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// RecordRequest records a request in Prometheus.
func (e *PrometheusExporter) RecordRequest(route string) {
	e.httpRequests.WithLabelValues(route).Inc()
}

// RecordDuration records a duration in Prometheus.
func (e *PrometheusExporter) RecordDuration(route string, durationSeconds float64) {
	e.httpDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordError records an error response in Prometheus.
func (e *PrometheusExporter) RecordError(route string) {
	e.httpErrors.WithLabelValues(route).Inc()
}

// RecordQuotaRejection records a quota-rejected admission.
func (e *PrometheusExporter) RecordQuotaRejection(forgerKey string) {
	e.quotaRejections.WithLabelValues(forgerKey).Inc()
}
