package metrics

import "github.com/prometheus/client_golang/prometheus"

// Enrichment Prometheus metrics.
var (
	EnrichmentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paperdex",
			Name:      "enrichment_requests_total",
			Help:      "Total number of enrichment scoring requests",
		},
		[]string{"provider", "model", "status"},
	)

	EnrichmentRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paperdex",
			Name:      "enrichment_request_duration_seconds",
			Help:      "Enrichment scoring request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	EnrichmentTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paperdex",
			Name:      "enrichment_tokens_total",
			Help:      "Total enrichment tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	EnrichmentErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paperdex",
			Name:      "enrichment_errors_total",
			Help:      "Total enrichment errors",
		},
		[]string{"provider", "model", "error_type"},
	)
)

// RegisterEnrichmentMetrics registers enrichment metrics with reg. The
// loader attaches them to its private registry; pass
// prometheus.DefaultRegisterer to use the default one.
func RegisterEnrichmentMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		EnrichmentRequestsTotal,
		EnrichmentRequestDuration,
		EnrichmentTokensTotal,
		EnrichmentErrorsTotal,
	)
}
