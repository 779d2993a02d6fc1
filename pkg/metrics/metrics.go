package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_stats_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_stats_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_stats_upstream_requests_total",
			Help: "Calls to third-party APIs by upstream and outcome",
		},
		[]string{"upstream", "outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_stats_upstream_request_duration_seconds",
			Help:    "Latency of third-party API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"upstream"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_stats_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	RenderCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_stats_render_cache_hits_total",
			Help: "Memoised component renders served from cache",
		},
		[]string{"component"},
	)

	RenderCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_stats_render_cache_misses_total",
			Help: "Component renders that executed the template",
		},
		[]string{"component"},
	)
)

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordUpstreamRequest(upstream, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(upstream, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(upstream).Observe(duration.Seconds())
}
