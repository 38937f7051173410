package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the quote counters on a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	computations *prometheus.CounterVec
	submissions  *prometheus.CounterVec
	applies      *prometheus.CounterVec
	issues       prometheus.Counter
}

// NewMetrics registers the quote counters plus Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_computations_total",
			Help: "Quotes computed, by plan.",
		}, []string{"plan"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_submissions_total",
			Help: "Contact submissions serialised, by whether a quote was attached.",
		}, []string{"with_quote"}),
		applies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_apply_total",
			Help: "Plan presets requested from pricing controls, by match outcome.",
		}, []string{"matched"}),
		issues: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_issues_total",
			Help: "Catalog defects coerced or reported at load time.",
		}),
	}
	reg.MustRegister(
		m.computations,
		m.submissions,
		m.applies,
		m.issues,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// QuoteComputed counts one computation.
func (m *Metrics) QuoteComputed(plan string) {
	if m == nil {
		return
	}
	m.computations.WithLabelValues(plan).Inc()
}

// PricingApplied counts one plan preset.
func (m *Metrics) PricingApplied(matched bool) {
	if m == nil {
		return
	}
	m.applies.WithLabelValues(strconv.FormatBool(matched)).Inc()
}

// SubmissionSerialised counts one enriched submission.
func (m *Metrics) SubmissionSerialised(withQuote bool) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(strconv.FormatBool(withQuote)).Inc()
}

// CatalogIssues adds n load-time defects.
func (m *Metrics) CatalogIssues(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.issues.Add(float64(n))
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
