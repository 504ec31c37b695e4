// Package metrics exposes Prometheus counters for knowledge-base activity.
// A nil *Metrics is valid and records nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "horn"

// Metrics groups the engine's counters.
type Metrics struct {
	Tells        prometheus.Counter
	Queries      prometheus.Counter
	Solutions    prometheus.Counter
	Unifications prometheus.Counter
	FatalErrors  *prometheus.CounterVec
}

// New creates the counters and registers them with reg. A nil reg leaves
// them unregistered, which is convenient in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Tells: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tells_total",
			Help:      "Facts and rules added to the knowledge base.",
		}),
		Queries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Top-level ask calls started.",
		}),
		Solutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solutions_total",
			Help:      "Binding sets handed to callers.",
		}),
		Unifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unifications_total",
			Help:      "Clause unification attempts during resolution.",
		}),
		FatalErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fatal_errors_total",
			Help:      "Tell or ask calls aborted by a structural error.",
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.Tells, m.Queries, m.Solutions, m.Unifications, m.FatalErrors)
	}
	return m
}

func (m *Metrics) Tell() {
	if m != nil {
		m.Tells.Inc()
	}
}

func (m *Metrics) Query() {
	if m != nil {
		m.Queries.Inc()
	}
}

func (m *Metrics) Solution() {
	if m != nil {
		m.Solutions.Inc()
	}
}

func (m *Metrics) Unification() {
	if m != nil {
		m.Unifications.Inc()
	}
}

// Fatal counts an aborted operation; op is "tell" or "ask".
func (m *Metrics) Fatal(op string) {
	if m != nil {
		m.FatalErrors.WithLabelValues(op).Inc()
	}
}
