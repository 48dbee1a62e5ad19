package transfer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransfer(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordConflictRetry(Leg)              {}
func (n *NoopMetricsCollector) RecordCompensation(string)            {}

// PrometheusMetrics exports transfer metrics.
type PrometheusMetrics struct {
	transfers     *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	retries       *prometheus.CounterVec
	compensations *prometheus.CounterVec
}

func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		transfers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "banklet_transfers_total",
			Help: "Transfers by outcome",
		}, []string{"outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "banklet_transfer_duration_seconds",
			Help:    "Transfer latency",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}, []string{"outcome"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "banklet_transfer_conflict_retries_total",
			Help: "Balance writes retried after a version conflict",
		}, []string{"leg"}),
		compensations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "banklet_transfer_compensations_total",
			Help: "Recipient credits reversed after a failed sender leg",
		}, []string{"result"}),
	}
}

func (m *PrometheusMetrics) RecordTransfer(outcome string, d time.Duration) {
	m.transfers.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordConflictRetry(leg Leg) {
	m.retries.WithLabelValues(string(leg)).Inc()
}

func (m *PrometheusMetrics) RecordCompensation(result string) {
	m.compensations.WithLabelValues(result).Inc()
}
