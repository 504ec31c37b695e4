// Package horn is a small logic-programming engine. A KB holds facts and
// rules; Ask proves a goal against them by SLD resolution with negation as
// failure and yields the bindings of every proof, lazily and in search order.
package horn

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/cognicore/horn/pkg/horn/builtin"
	"github.com/cognicore/horn/pkg/horn/logic"
	"github.com/cognicore/horn/pkg/horn/metrics"
	"github.com/cognicore/horn/pkg/horn/query"
	"github.com/cognicore/horn/pkg/horn/store"
	"github.com/cognicore/horn/pkg/horn/store/memstore"
	"github.com/cognicore/horn/pkg/horn/syntax"
	"github.com/cognicore/horn/pkg/horn/unify"
)

// KB is a knowledge base. Tell and Ask may be called from several goroutines;
// every Ask owns its own variable naming.
type KB struct {
	store    store.Store
	log      *zap.Logger
	metrics  *metrics.Metrics
	maxDepth int
	parser   *syntax.Parser
	ids      *query.IDSource
}

// Options configures a KB. Every field is optional.
type Options struct {
	Store     store.Store
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Operators *builtin.Registry

	// MaxDepth bounds nested rule expansions per proof. Zero means no bound.
	MaxDepth int
}

// New creates a KB with the given dependencies.
func New(opts Options) *KB {
	kb := &KB{
		store:    opts.Store,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		maxDepth: opts.MaxDepth,
		parser:   syntax.New(opts.Operators),
		ids:      query.NewIDSource(),
	}
	if kb.store == nil {
		kb.store = memstore.New()
	}
	if kb.log == nil {
		kb.log = zap.NewNop()
	}
	return kb
}

// Tell adds a fact or a rule. Function terms whose arguments are already
// ground are evaluated before the clause is stored.
func (kb *KB) Tell(s logic.Sentence) error {
	if err := store.Validate(s); err != nil {
		return kb.tellFailed(err)
	}
	s, err := unify.ApplySentence(unify.Subst{}, s)
	if err != nil {
		return kb.tellFailed(err)
	}
	if err := kb.store.Tell(s); err != nil {
		return kb.tellFailed(err)
	}
	kb.metrics.Tell()
	kb.log.Debug("tell", zap.String("verb", verbOf(s)), zap.Stringer("clause", s))
	return nil
}

func (kb *KB) tellFailed(err error) error {
	kb.metrics.Fatal("tell")
	kb.log.Warn("tell failed", zap.Error(err))
	return err
}

// TellAll tells each clause in order and stops at the first error.
func (kb *KB) TellAll(clauses ...logic.Sentence) error {
	for i, c := range clauses {
		if err := kb.Tell(c); err != nil {
			return fmt.Errorf("clause %d: %w", i+1, err)
		}
	}
	return nil
}

// Load parses a program in the text syntax and tells its clauses. It returns
// the number of clauses told.
func (kb *KB) Load(src string) (int, error) {
	clauses, err := kb.parser.Program(src)
	if err != nil {
		return 0, err
	}
	for i, c := range clauses {
		if err := kb.Tell(c); err != nil {
			return i, fmt.Errorf("clause %d (%v): %w", i+1, c, err)
		}
	}
	return len(clauses), nil
}

// ParseQuery reads a goal in the text syntax using the KB's operators.
func (kb *KB) ParseQuery(src string) (logic.Sentence, error) {
	return kb.parser.Query(src)
}

// Ask proves goal and yields the bindings of the caller's variables for each
// proof. Stopping the range abandons the search. A fatal condition is
// yielded once, as the last element.
func (kb *KB) Ask(ctx context.Context, goal logic.Sentence) iter.Seq2[query.Bindings, error] {
	return func(yield func(query.Bindings, error) bool) {
		log := kb.log.With(zap.String("query_id", kb.ids.New()), zap.Stringer("goal", goal))
		log.Debug("ask")

		answers := 0
		opts := query.Options{MaxDepth: kb.maxDepth, Metrics: kb.metrics}
		for b, err := range query.Run(ctx, kb.store, goal, opts) {
			if err != nil {
				if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
					kb.metrics.Fatal("ask")
				}
				log.Warn("ask failed", zap.Int("answers", answers), zap.Error(err))
				yield(nil, err)
				return
			}
			answers++
			if !yield(b, nil) {
				break
			}
		}
		log.Debug("ask done", zap.Int("answers", answers))
	}
}

// AskN collects up to n answers, or all of them when n <= 0.
func (kb *KB) AskN(ctx context.Context, goal logic.Sentence, n int) ([]query.Bindings, error) {
	return query.Collect(kb.Ask(ctx, goal), n)
}

// Query returns a pull cursor over the answers to goal. Callers must Close it.
func (kb *KB) Query(ctx context.Context, goal logic.Sentence) *query.Cursor {
	return query.NewCursor(kb.Ask(ctx, goal))
}

// Facts returns the facts stored for verb.
func (kb *KB) Facts(verb string) []logic.Pred { return kb.store.Facts(verb) }

// Rules returns the rules whose head has verb.
func (kb *KB) Rules(verb string) []logic.Rule { return kb.store.Rules(verb) }

// Predicates lists every known verb, sorted.
func (kb *KB) Predicates() []string { return kb.store.Predicates() }

// Size is the number of stored facts and rules.
func (kb *KB) Size() (facts, rules int) { return kb.store.Size() }

func verbOf(s logic.Sentence) string {
	switch x := s.(type) {
	case logic.Pred:
		return x.Verb
	case logic.Rule:
		return x.Head.Verb
	}
	return ""
}
