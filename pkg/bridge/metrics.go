package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the bridge's Prometheus instruments.
type metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration prometheus.Histogram
	popstateTotal      prometheus.Counter
	sessionsActive     prometheus.Gauge
}

func newMetrics(namespace string, registry prometheus.Registerer) *metrics {
	factory := promauto.With(registry)

	return &metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Total number of history commits sent to clients",
		}, []string{"result"}),

		navigationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "navigation_duration_seconds",
			Help:      "Time spent writing a history commit to the client",
			Buckets:   prometheus.DefBuckets,
		}),

		popstateTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "popstate_total",
			Help:      "Total number of popstate events received from clients",
		}),

		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of connected bridge sessions",
		}),
	}
}
