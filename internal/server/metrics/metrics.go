// Package metrics holds the Prometheus collectors of the token service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "subcheck"

// Token creation sources.
const (
	SourceAdmin = "admin"
	SourceSeed  = "seed"
)

// Metrics groups the service collectors around a private registry, so that
// several instances (e.g. in tests) never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	checks        *prometheus.CounterVec
	tokensCreated *prometheus.CounterVec
	checkDuration prometheus.Histogram
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.checks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tokens",
		Name:      "checks_total",
		Help:      "Token checks by verdict",
	}, []string{"verdict"})

	m.tokensCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tokens",
		Name:      "created_total",
		Help:      "Tokens created by source",
	}, []string{"source"})

	m.checkDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "tokens",
		Name:      "check_duration_seconds",
		Help:      "Time spent evaluating a token, storage lookup included",
		Buckets:   prometheus.DefBuckets,
	})

	m.registry.MustRegister(
		m.checks,
		m.tokensCreated,
		m.checkDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveCheck records one evaluation with its verdict label.
func (m *Metrics) ObserveCheck(verdict string, seconds float64) {
	if m == nil {
		return
	}
	m.checks.WithLabelValues(verdict).Inc()
	m.checkDuration.Observe(seconds)
}

// TokensCreated adds n to the creation counter of source.
func (m *Metrics) TokensCreated(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.tokensCreated.WithLabelValues(source).Add(float64(n))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
