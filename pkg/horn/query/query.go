// Package query is the ask entry point: it drives the resolution engine from
// an empty substitution and turns every proof into the bindings of the
// variables the caller wrote.
package query

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/cognicore/horn/pkg/horn/inference"
	"github.com/cognicore/horn/pkg/horn/internalerr"
	"github.com/cognicore/horn/pkg/horn/logic"
	"github.com/cognicore/horn/pkg/horn/metrics"
	"github.com/cognicore/horn/pkg/horn/unify"
)

// Catalog is a clause source that also knows which verbs exist.
type Catalog interface {
	inference.ClauseSource
	HasPredicate(verb string) bool
}

// Bindings maps the caller's variables to their final values.
type Bindings map[logic.Var]logic.Term

// Get returns the value bound to the query variable name.
func (b Bindings) Get(name string) (logic.Term, bool) {
	t, ok := b[logic.V(name)]
	return t, ok
}

// Names lists the bound variable names, sorted.
func (b Bindings) Names() []string {
	out := make([]string, 0, len(b))
	for v := range b {
		out = append(out, v.Name)
	}
	sort.Strings(out)
	return out
}

// String renders "X = a, Y = b", or "true" for an empty binding set.
func (b Bindings) String() string {
	if len(b) == 0 {
		return "true"
	}
	names := b.Names()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s = %s", n, b[logic.V(n)])
	}
	return strings.Join(parts, ", ")
}

// Options tune a single query.
type Options struct {
	MaxDepth int
	Metrics  *metrics.Metrics
}

// Run answers goal against cat. Each proof yields one Bindings value; the
// sequence ends early when the consumer stops ranging over it. A fatal
// condition or context cancellation is yielded once as a non-nil error and
// ends the sequence.
//
// A Pred goal whose verb has no facts and no rules is rejected with
// internalerr.ErrUnknownPredicate.
func Run(ctx context.Context, cat Catalog, goal logic.Sentence, opts Options) iter.Seq2[Bindings, error] {
	return func(yield func(Bindings, error) bool) {
		opts.Metrics.Query()

		if p, ok := goal.(logic.Pred); ok && !cat.HasPredicate(p.Verb) {
			yield(nil, fmt.Errorf("%w: %s/%d", internalerr.ErrUnknownPredicate, p.Verb, p.Arity()))
			return
		}

		// A fresh resolver per call restarts variable naming for this query.
		r := inference.NewResolver(cat,
			inference.WithMaxDepth(opts.MaxDepth),
			inference.WithMetrics(opts.Metrics))

		stopped := false
		err := r.Solve(ctx, goal, unify.Subst{}, func(u unify.Subst) bool {
			opts.Metrics.Solution()
			if !yield(Visible(unify.Closure(u)), nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(nil, err)
		}
	}
}

// Visible keeps the bindings of caller-written variables, dropping
// variables minted by standardize-apart and anonymous ones (names starting
// with an underscore).
func Visible(u unify.Subst) Bindings {
	out := make(Bindings, u.Len())
	for _, v := range u.Vars() {
		if v.Internal() || strings.HasPrefix(v.Name, "_") {
			continue
		}
		t, _ := u.Lookup(v)
		out[v] = t
	}
	return out
}

// Collect gathers up to n answers (all when n <= 0).
func Collect(seq iter.Seq2[Bindings, error], n int) ([]Bindings, error) {
	var out []Bindings
	if n > 0 {
		out = make([]Bindings, 0, n)
	}
	for b, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, b)
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out, nil
}
