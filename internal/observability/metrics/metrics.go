package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "garden_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "garden_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "garden_upstream_requests_total",
		Help: "Outbound calls to hardiness, weather and catalog services by outcome",
	}, []string{"upstream", "outcome"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "garden_upstream_duration_seconds",
		Help:    "Duration of outbound upstream calls",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"upstream"})

	zoneCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "garden_zone_cache_lookups_total",
		Help: "Hardiness zone cache lookups by result",
	}, []string{"result"})

	catalogImportPlants = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "garden_catalog_import_plants_total",
		Help: "Catalog import outcomes per crop",
	}, []string{"result"})

	authFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "garden_auth_failures_total",
		Help: "Rejected logins and tokens by reason",
	}, []string{"reason"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveUpstream records one outbound call. outcome is "ok", "not_found", "error" or "timeout".
func ObserveUpstream(upstream, outcome string, duration time.Duration) {
	upstreamRequests.WithLabelValues(upstream, outcome).Inc()
	upstreamDuration.WithLabelValues(upstream).Observe(duration.Seconds())
}

// ObserveZoneCache records a cache "hit", "miss" or "error".
func ObserveZoneCache(result string) {
	zoneCacheLookups.WithLabelValues(result).Inc()
}

// ObserveCatalogImport adds n crops with the given result to the import counter.
func ObserveCatalogImport(result string, n int) {
	if n <= 0 {
		return
	}
	catalogImportPlants.WithLabelValues(result).Add(float64(n))
}

// ObserveAuthFailure counts a rejected credential or token.
func ObserveAuthFailure(reason string) {
	authFailures.WithLabelValues(reason).Inc()
}
