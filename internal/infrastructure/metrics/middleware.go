package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// statusWriter captures the response status for error accounting.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Middleware returns an HTTP middleware that records request count, error
// count, and duration per route pattern.
func Middleware(collector *Collector, exporter *PrometheusExporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			route := r.Method + " " + routePattern(r)

			collector.RecordRequest(route)
			if exporter != nil {
				exporter.RecordRequest(route)
			}

			duration := time.Since(start).Seconds()
			collector.RecordDuration(route, duration)
			if exporter != nil {
				exporter.RecordDuration(route, duration)
			}

			if sw.status >= http.StatusBadRequest {
				collector.RecordError(route)
				if exporter != nil {
					exporter.RecordError(route)
				}
			}
		})
	}
}

// routePattern returns the matched chi route pattern, so metrics aggregate
// per endpoint rather than per concrete URL.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
