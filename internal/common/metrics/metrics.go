// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EngineRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_requests_total",
			Help: "Total number of engine operations by outcome",
		},
		[]string{"operation", "status"},
	)

	EngineRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "engine_request_duration_seconds",
			Help: "Duration of engine operations in seconds",
		},
		[]string{"operation"},
	)

	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_candidates_scored_total",
			Help: "Total number of candidates scored across searches",
		},
	)

	NetworkExpansions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_network_expansions_total",
			Help: "Total number of BFS frontier expansions",
		},
	)

	ProfileCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_profile_cache_requests_total",
			Help: "Profile cache lookups by result",
		},
		[]string{"result"},
	)
)
