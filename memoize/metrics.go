package memoize

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MemoizeMetrics holds Prometheus metrics for memoization.
type MemoizeMetrics struct {
	hitsTotal      *prometheus.CounterVec
	missesTotal    *prometheus.CounterVec
	evictionsTotal *prometheus.CounterVec
}

var (
	memoizeMetricsInstance *MemoizeMetrics
	memoizeMetricsOnce     sync.Once
)

// GetMemoizeMetrics returns the singleton memoize metrics instance.
func GetMemoizeMetrics() *MemoizeMetrics {
	memoizeMetricsOnce.Do(func() {
		memoizeMetricsInstance = newMemoizeMetrics()
	})
	return memoizeMetricsInstance
}

// MustRegister registers all memoize metric collectors with the given
// Prometheus registry. promauto registers metrics with the default global
// registry; calling MustRegister bridges them onto a custom registry.
func (m *MemoizeMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.hitsTotal,
		m.missesTotal,
		m.evictionsTotal,
	)
}

func newMemoizeMetrics() *MemoizeMetrics {
	return &MemoizeMetrics{
		hitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "decorate",
				Subsystem: "memoize",
				Name:      "hits_total",
				Help:      "Total number of memoization cache hits",
			},
			[]string{"backend"},
		),
		missesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "decorate",
				Subsystem: "memoize",
				Name:      "misses_total",
				Help:      "Total number of memoization cache misses",
			},
			[]string{"backend"},
		),
		evictionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "decorate",
				Subsystem: "memoize",
				Name:      "evictions_total",
				Help:      "Total number of entries evicted from bounded caches",
			},
			[]string{"backend"},
		),
	}
}
