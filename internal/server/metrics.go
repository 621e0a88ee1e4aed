package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion outcomes as recorded in metrics.
const (
	OutcomeAccepted          = "accepted"
	OutcomeNeedsReview       = "needs_review"
	OutcomeValidationFailed  = "validation_failed"
	OutcomePersistenceFailed = "persistence_failed"
	OutcomeUnauthorized      = "unauthorized"
)

// Metrics holds all Prometheus metrics for the service
type Metrics struct {
	IngestionsTotal  *prometheus.CounterVec
	EvaluationScores prometheus.Histogram
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		IngestionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_extractor_ingestions_total",
			Help: "Total ingestion requests by outcome",
		}, []string{"outcome"}),
		EvaluationScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "invoice_extractor_evaluation_score",
			Help:    "Distribution of quality evaluation scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
}

// RecordIngestion increments the ingestion counter for an outcome.
func (m *Metrics) RecordIngestion(outcome string) {
	m.IngestionsTotal.WithLabelValues(outcome).Inc()
}
