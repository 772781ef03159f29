// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LookupsTotal counts lookups by identifier kind and outcome
	// (snapshot, list, auth_failed, upstream_error, invalid_input).
	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carriercheck_lookups_total",
		Help: "Lookup requests by query kind and outcome.",
	}, []string{"kind", "outcome"})

	// UpstreamDuration tracks registry fetch latency.
	UpstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "carriercheck_upstream_duration_seconds",
		Help:    "Registry fetch latency.",
		Buckets: prometheus.DefBuckets,
	})

	// CacheHitsTotal counts lookups answered from the result cache.
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carriercheck_cache_hits_total",
		Help: "Lookups served from the in-process result cache.",
	})
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
