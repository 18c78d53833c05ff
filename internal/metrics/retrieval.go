package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paperdex",
			Name:      "search_requests_total",
			Help:      "Total number of hybrid search requests",
		},
		[]string{"mode"},
	)

	RetrievalSourceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paperdex",
			Name:      "retrieval_source_duration_seconds",
			Help:      "Per-source retrieval duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source", "status"},
	)

	RetrievalFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paperdex",
			Name:      "retrieval_source_failures_total",
			Help:      "Total retrieval source failures",
		},
		[]string{"source", "reason"}, // reason: "timeout" / "upstream"
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(RetrievalSourceDuration)
	prometheus.MustRegister(RetrievalFailuresTotal)
	retrievalMetricsRegistered = true
}
