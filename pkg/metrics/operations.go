package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics records outcomes of client operations such as cart refreshes
// and checkouts.
type OperationMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewOperationMetrics registers the operation metrics on reg. A nil registerer
// yields a no-op recorder.
func NewOperationMetrics(reg prometheus.Registerer) *OperationMetrics {
	if reg == nil {
		return &OperationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Name:      "operation_duration_seconds",
		Help:      "Duration of storefront client operations in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "operation_success_total",
		Help:      "Successful storefront client operations.",
	}, []string{"op"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "operation_failure_total",
		Help:      "Failed storefront client operations by error code.",
	}, []string{"op", "code"})
	reg.MustRegister(duration, success, failure)
	return &OperationMetrics{duration: duration, success: success, failure: failure}
}

// Observe records one finished operation. code is empty on success.
func (m *OperationMetrics) Observe(op string, started time.Time, code string) {
	if m == nil || m.duration == nil {
		return
	}
	op = normalizeLabel(op)
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	if code == "" {
		m.success.WithLabelValues(op).Inc()
		return
	}
	m.failure.WithLabelValues(op, code).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
