package inference

import (
	"context"
	"fmt"

	"github.com/cognicore/horn/pkg/horn/internalerr"
	"github.com/cognicore/horn/pkg/horn/logic"
	"github.com/cognicore/horn/pkg/horn/metrics"
	"github.com/cognicore/horn/pkg/horn/standardize"
	"github.com/cognicore/horn/pkg/horn/unify"
)

// Resolver proves goals against a ClauseSource. It owns the renaming counter
// of one query, so a Resolver must not be shared between concurrent queries.
type Resolver struct {
	src      ClauseSource
	names    standardize.Renamer
	maxDepth int
	metrics  *metrics.Metrics
}

// NewResolver creates a resolver with a fresh renaming counter.
func NewResolver(src ClauseSource, opts ...Option) *Resolver {
	r := &Resolver{src: src}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// cont receives one successor substitution. Returning false stops the search.
type cont func(unify.Subst) bool

// Solve calls yield with every substitution extending u under which goal is
// provable, in search order, until yield returns false or the search space is
// exhausted. The error is non-nil only for fatal conditions and context
// cancellation.
func (r *Resolver) Solve(ctx context.Context, goal logic.Sentence, u unify.Subst, yield func(unify.Subst) bool) error {
	_, err := r.solve(ctx, goal, u, 0, yield)
	return err
}

// solve reports whether the search should continue.
func (r *Resolver) solve(ctx context.Context, goal logic.Sentence, u unify.Subst, depth int, k cont) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	g, err := unify.ApplySentence(u, goal)
	if err != nil {
		return false, err
	}

	switch g := g.(type) {
	case logic.Pred:
		return r.solvePred(ctx, g, u, depth, k)

	case logic.Eq:
		u1, err := unify.Unify(g.L, g.R, u)
		if err != nil {
			return false, err
		}
		if u1.Failed() {
			return true, nil
		}
		return k(u1), nil

	case logic.NotEq:
		u1, err := unify.Unify(g.L, g.R, u)
		if err != nil {
			return false, err
		}
		if u1.Failed() {
			return k(u), nil
		}
		return true, nil

	case logic.And:
		var inner error
		more, err := r.solve(ctx, g.L, u, depth, func(u1 unify.Subst) bool {
			more, err := r.solve(ctx, g.R, u1, depth, k)
			if err != nil {
				inner = err
				return false
			}
			return more
		})
		if inner != nil {
			return false, inner
		}
		return more, err

	case logic.Or:
		more, err := r.solve(ctx, g.L, u, depth, k)
		if err != nil || !more {
			return more, err
		}
		return r.solve(ctx, g.R, u, depth, k)

	case logic.Not:
		found := false
		_, err := r.solve(ctx, g.S, u, depth, func(unify.Subst) bool {
			found = true
			return false
		})
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
		return k(u), nil

	case logic.Rule:
		if g.Body == nil {
			return r.solvePred(ctx, g.Head, u, depth, k)
		}
		return r.solve(ctx, logic.And{L: g.Body, R: g.Head}, u, depth, k)

	default:
		return false, fmt.Errorf("%w: illegal goal %v", internalerr.ErrUnsupportedSentence, goal)
	}
}

// solvePred tries the facts for the goal's verb, then its rules, each in
// declaration order.
func (r *Resolver) solvePred(ctx context.Context, goal logic.Pred, u unify.Subst, depth int, k cont) (bool, error) {
	if r.maxDepth > 0 && depth > r.maxDepth {
		return false, fmt.Errorf("%w: %d levels at %v", internalerr.ErrDepthExceeded, r.maxDepth, goal)
	}

	for _, fact := range r.src.Facts(goal.Verb) {
		r.metrics.Unification()
		u1, err := unify.Unify(r.names.Pred(fact), goal, u)
		if err != nil {
			return false, err
		}
		if u1.Failed() {
			continue
		}
		if !k(u1) {
			return false, nil
		}
	}

	for _, rule := range r.src.Rules(goal.Verb) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		rule = r.names.Rule(rule)
		r.metrics.Unification()
		u1, err := unify.Unify(rule.Head, goal, u)
		if err != nil {
			return false, err
		}
		if u1.Failed() {
			continue
		}
		if rule.Body == nil {
			if !k(u1) {
				return false, nil
			}
			continue
		}
		more, err := r.solve(ctx, rule.Body, u1, depth+1, k)
		if err != nil || !more {
			return false, err
		}
	}
	return true, nil
}
