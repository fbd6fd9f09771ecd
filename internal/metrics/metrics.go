// Package metrics holds the Prometheus collectors of the API process.
//
// Collectors are registered on the default registry at package init and
// exposed on /metrics when PROMETHEUS_ENABLED is set.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route template and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookrating_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency per route template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookrating_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// TogglesTotal counts like/follow toggles by kind and resulting state.
	TogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookrating_toggles_total",
			Help: "Total number of like and follow toggles",
		},
		[]string{"kind", "state"},
	)

	// CacheLookupsTotal counts redis cache lookups by cache name and outcome.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookrating_cache_lookups_total",
			Help: "Total number of cache lookups",
		},
		[]string{"cache", "result"},
	)

	// RateLimitedTotal counts requests rejected by the auth throttle.
	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookrating_rate_limited_total",
			Help: "Total number of requests rejected by rate limiting",
		},
	)
)

// RecordRequest records one finished HTTP request.
func RecordRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordToggle records a toggle of the given kind ("review_like", "author_follow", ...).
func RecordToggle(kind string, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	TogglesTotal.WithLabelValues(kind, state).Inc()
}

// RecordCacheLookup records a hit or miss for the named cache.
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}
