package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

// Latency buckets in milliseconds.
var latencyBuckets = []float64{
	5, 10, 25,
	50, 100, 250,
	500, 1000, 2500,
	5000, 10000, 30000,
}

var (
	// TurnsTotal counts agent turns by outcome: allowed, blocked or
	// failed_open.
	TurnsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_agent_turns_total",
			Help: "Total number of agent turns processed by gate outcome",
		},
		[]string{"outcome"},
	)

	// BlockedCategories is the operator-facing view of what the gate
	// blocked; the end user only ever sees the fixed refusal text.
	BlockedCategories = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_agent_blocked_categories_total",
			Help: "Blocked turns by matched safety category",
		},
		[]string{"category"},
	)

	ClassifierFailures = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_agent_classifier_failures_total",
			Help: "Prompt classifier calls that failed open",
		},
		[]string{"reason"},
	)

	ClassifierLatency = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_agent_classifier_latency_ms",
			Help:    "Prompt classifier call latency in milliseconds",
			Buckets: latencyBuckets,
		},
	)

	CatalogSearchLatency = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_agent_search_latency_ms",
			Help:    "Catalog search call latency in milliseconds",
			Buckets: latencyBuckets,
		},
	)
)

const (
	OutcomeAllowed    = "allowed"
	OutcomeBlocked    = "blocked"
	OutcomeFailedOpen = "failed_open"
)

// Handler serves the private registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
