// Package metrics exposes Prometheus metrics for the ordering webhook.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Commit outcomes used as the "result" label.
const (
	CommitSuccess = "success"
	CommitFailure = "failure"
	CommitNoOrder = "no_order"
)

// SessionCounter reports how many sessions hold an in-progress order.
type SessionCounter interface {
	Len() int
}

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	IntentsTotal   *prometheus.CounterVec
	CommitsTotal   *prometheus.CounterVec
	CommitDuration prometheus.Histogram
	SessionsActive prometheus.GaugeFunc
}

// New creates and registers all metrics. sessions backs the active
// sessions gauge and may be nil.
func New(sessions SessionCounter) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		IntentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbot_intents_total",
				Help: "Total number of webhook intent events by intent kind",
			},
			[]string{"intent"},
		),
		CommitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbot_commits_total",
				Help: "Total number of order commits by result",
			},
			[]string{"result"},
		),
		CommitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "orderbot_commit_duration_seconds",
				Help:    "Duration of order commits in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		SessionsActive: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "orderbot_sessions_active",
				Help: "Number of sessions holding an in-progress order",
			},
			func() float64 {
				if sessions == nil {
					return 0
				}
				return float64(sessions.Len())
			},
		),
	}

	registry.MustRegister(m.IntentsTotal, m.CommitsTotal, m.CommitDuration, m.SessionsActive)
	return m
}

// ObserveIntent counts one dispatched intent. Safe on a nil receiver.
func (m *Metrics) ObserveIntent(kind string) {
	if m == nil {
		return
	}
	m.IntentsTotal.WithLabelValues(kind).Inc()
}

// ObserveCommit records a commit outcome and its duration. Safe on a nil receiver.
func (m *Metrics) ObserveCommit(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CommitsTotal.WithLabelValues(result).Inc()
	m.CommitDuration.Observe(elapsed.Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
