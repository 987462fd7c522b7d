package retry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RetryMetrics holds Prometheus metrics for retry operations.
type RetryMetrics struct {
	attemptsTotal  prometheus.Counter
	exhaustedTotal prometheus.Counter
}

var (
	retryMetricsInstance *RetryMetrics
	retryMetricsOnce     sync.Once
)

// GetRetryMetrics returns the singleton retry metrics instance.
func GetRetryMetrics() *RetryMetrics {
	retryMetricsOnce.Do(func() {
		retryMetricsInstance = newRetryMetrics()
	})
	return retryMetricsInstance
}

// MustRegister registers all retry metric collectors with the given
// Prometheus registry. promauto registers metrics with the default global
// registry; calling MustRegister bridges them onto a custom registry.
func (m *RetryMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.attemptsTotal,
		m.exhaustedTotal,
	)
}

func newRetryMetrics() *RetryMetrics {
	return &RetryMetrics{
		attemptsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "decorate",
				Subsystem: "retry",
				Name:      "attempts_total",
				Help:      "Total number of call attempts made by the retry wrapper",
			},
		),
		exhaustedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "decorate",
				Subsystem: "retry",
				Name:      "exhausted_total",
				Help:      "Total number of calls that failed after all attempts",
			},
		),
	}
}
