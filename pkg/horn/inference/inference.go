// Package inference is the resolution engine: depth-first proof search with
// backtracking over facts, rules, conjunction, disjunction and negation as
// failure.
package inference

import (
	"github.com/cognicore/horn/pkg/horn/logic"
	"github.com/cognicore/horn/pkg/horn/metrics"
)

// ClauseSource supplies the clauses the engine resolves against.
// store.Store satisfies it.
type ClauseSource interface {
	Facts(verb string) []logic.Pred
	Rules(verb string) []logic.Rule
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth bounds the number of nested rule expansions. Zero or a
// negative value means unbounded.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) { r.maxDepth = n }
}

// WithMetrics records unification attempts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}
