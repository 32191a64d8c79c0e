package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus instruments. A nil *Metrics is
// valid and records nothing, so callers never have to branch on whether
// metrics are wired.
type Metrics struct {
	registry *prometheus.Registry

	dialAttempts *prometheus.CounterVec
	dialDuration prometheus.Histogram
	batchSizes   prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.dialAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dialout",
		Name:      "dial_attempts_total",
		Help:      "Outbound call attempts by outcome and failing stage.",
	}, []string{"outcome", "stage"})

	m.dialDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dialout",
		Name:      "dial_duration_seconds",
		Help:      "Wall time of a single call attempt, validation through dial.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})

	m.batchSizes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dialout",
		Name:      "batch_size",
		Help:      "Number of destinations per batch request.",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
	})

	m.registry.MustRegister(m.dialAttempts, m.dialDuration, m.batchSizes)
	return m
}

// ObserveAttempt records one finished call attempt. stage is empty on
// success and names the failing stage otherwise.
func (m *Metrics) ObserveAttempt(stage string, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if stage != "" {
		outcome = "failure"
	}
	m.dialAttempts.WithLabelValues(outcome, stage).Inc()
	m.dialDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveBatch(size int) {
	if m == nil {
		return
	}
	m.batchSizes.Observe(float64(size))
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
