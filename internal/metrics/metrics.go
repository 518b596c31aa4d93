// Package metrics defines the Prometheus collectors the engine exposes so
// hosts can watch resolution outcomes and catch invariant violations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's collectors.
type Metrics struct {
	ResolutionsTotal         *prometheus.CounterVec
	ReconcileDroppedTotal    prometheus.Counter
	InvariantViolationsTotal prometheus.Counter
}

// New creates the collectors and registers them on reg. Hosts that do not
// scrape pass prometheus.NewRegistry() or wire their own registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "highlight_resolutions_total",
				Help: "Resolution attempts by request shape, winning strategy, and outcome (resolved, rejected).",
			},
			[]string{"shape", "strategy", "outcome"},
		),
		ReconcileDroppedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "highlight_reconcile_dropped_total",
				Help: "Valid highlights dropped by overlap resolution in favor of a higher-ranked span.",
			},
		),
		InvariantViolationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "highlight_invariant_violations_total",
				Help: "Spans a resolver accepted but the validator rejected; any increase is an engine bug.",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.ResolutionsTotal, m.ReconcileDroppedTotal, m.InvariantViolationsTotal)
	}
	return m
}
