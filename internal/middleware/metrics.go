package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP and catalog collectors of one registry
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CatalogSize     prometheus.Gauge
}

// NewMetrics registers the collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cyberstore",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cyberstore",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CatalogSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "cyberstore",
			Subsystem: "catalog",
			Name:      "games",
			Help:      "Number of games in the catalog at the last listing.",
		}),
	}
}

// RouteFunc names the route a request matched, for use as a metric label
type RouteFunc func(r *http.Request) string

// Instrument creates middleware recording request counts and latencies.
// route keeps label cardinality bounded; nil falls back to the raw path.
func Instrument(m *Metrics, route RouteFunc) func(http.Handler) http.Handler {
	if route == nil {
		route = func(r *http.Request) string { return r.URL.Path }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &ResponseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			name := route(r)
			m.Requests.WithLabelValues(r.Method, name, strconv.Itoa(wrapped.status)).Inc()
			m.RequestDuration.WithLabelValues(r.Method, name).Observe(time.Since(start).Seconds())
		})
	}
}
