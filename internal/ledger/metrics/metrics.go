// Package metrics provides observability for the product ledger.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the ledger's Prometheus metrics.
type Metrics struct {
	// Products created since process start.
	ProductsCreated prometheus.Counter

	// Checkpoints verified, labelled by the status they advanced to.
	CheckpointsVerified *prometheus.CounterVec

	// Rejected transitions by failure code.
	VerifyRejected *prometheus.CounterVec

	// End-to-end checkpoint verification latency.
	VerifyLatency prometheus.Histogram
}

// New creates a Metrics instance with all ledger metrics registered.
func New() *Metrics {
	return &Metrics{
		ProductsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "traceline_products_created_total",
			Help: "Total number of products registered on the ledger",
		}),
		CheckpointsVerified: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "traceline_checkpoints_verified_total",
			Help: "Total verified checkpoints by target status",
		}, []string{"status"}),
		VerifyRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "traceline_checkpoint_rejections_total",
			Help: "Total rejected checkpoint verifications by reason",
		}, []string{"reason"}),
		VerifyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "traceline_checkpoint_verify_duration_seconds",
			Help:    "Duration of checkpoint verification including store commit",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementProductsCreated records a successful product registration.
func (m *Metrics) IncrementProductsCreated() {
	if m != nil {
		m.ProductsCreated.Inc()
	}
}

// ObserveVerified records a successful checkpoint verification.
func (m *Metrics) ObserveVerified(status string, d time.Duration) {
	if m != nil {
		m.CheckpointsVerified.WithLabelValues(status).Inc()
		m.VerifyLatency.Observe(d.Seconds())
	}
}

// IncrementRejected records a rejected checkpoint verification.
func (m *Metrics) IncrementRejected(reason string) {
	if m != nil {
		m.VerifyRejected.WithLabelValues(reason).Inc()
	}
}
