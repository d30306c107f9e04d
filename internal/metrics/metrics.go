// Package metrics holds the Prometheus collectors of the search pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query outcomes.
const (
	OutcomeExecuted   = "executed"
	OutcomeVacuous    = "vacuous"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
	OutcomeInvalid    = "invalid"
)

// Metrics records search cycles. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler
	queries  *prometheus.CounterVec
	duration prometheus.Histogram
	rows     prometheus.Counter
}

// New registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "academyscope_queries_total",
		Help: "Search cycles by outcome",
	}, []string{"outcome"})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "academyscope_query_duration_seconds",
		Help:    "Duration of search cycles that reached the data source",
		Buckets: prometheus.DefBuckets,
	})

	rows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academyscope_rows_returned_total",
		Help: "Rows returned by the data source",
	})

	registry.MustRegister(queries, duration, rows)

	return &Metrics{
		registry: registry,
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		queries:  queries,
		duration: duration,
		rows:     rows,
	}
}

// Handler exposes the collectors over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveQuery counts one cycle with the given outcome.
func (m *Metrics) ObserveQuery(outcome string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(outcome).Inc()
}

// ObserveExecution records a cycle that reached the data source.
func (m *Metrics) ObserveExecution(d time.Duration, rows int) {
	if m == nil {
		return
	}
	m.duration.Observe(d.Seconds())
	m.rows.Add(float64(rows))
}
