// Package metrics exposes Prometheus instruments for project evaluations.
package metrics

import (
	"time"

	"github.com/iwvelando/project-viability/pkg/indicators"
	"github.com/iwvelando/project-viability/pkg/sensitivity"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records evaluation outcomes. A nil *Metrics records nothing.
type Metrics struct {
	evaluations   *prometheus.CounterVec
	irrUnresolved prometheus.Counter
	scenarios     *prometheus.CounterVec
	duration      prometheus.Histogram
}

// New creates the instruments and registers them with registerer, or with
// prometheus.DefaultRegisterer when nil.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	evaluations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "viability_evaluations_total",
		Help: "Project evaluations by decision.",
	}, []string{"decision"})
	irrUnresolved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "viability_irr_unresolved_total",
		Help: "Evaluations whose IRR solver found no result.",
	})
	scenarios := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "viability_scenarios_total",
		Help: "Sensitivity scenarios evaluated by viability label.",
	}, []string{"viability"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "viability_evaluation_duration_seconds",
		Help:    "Wall time of a full project evaluation.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	registerer.MustRegister(evaluations, irrUnresolved, scenarios, duration)

	return &Metrics{
		evaluations:   evaluations,
		irrUnresolved: irrUnresolved,
		scenarios:     scenarios,
		duration:      duration,
	}
}

// ObserveEvaluation records one completed evaluation.
func (m *Metrics) ObserveEvaluation(result indicators.Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(string(result.Decision)).Inc()
	if result.IRR == nil {
		m.irrUnresolved.Inc()
	}
	m.duration.Observe(elapsed.Seconds())
}

// ObserveScenarios records the viability label of each scenario result.
func (m *Metrics) ObserveScenarios(results []sensitivity.Result) {
	if m == nil {
		return
	}
	for _, r := range results {
		m.scenarios.WithLabelValues(string(r.Viability)).Inc()
	}
}
