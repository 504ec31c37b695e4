package unify

import (
	"fmt"

	"github.com/cognicore/horn/pkg/horn/internalerr"
	"github.com/cognicore/horn/pkg/horn/logic"
)

// ApplyTerm rewrites t under u. A bound variable resolves to the value at the
// end of its variable chain; compound terms are rebuilt; function terms have
// their arguments rewritten first and are evaluated when all of them are
// ground. ApplyTerm never modifies u or t.
func ApplyTerm(u Subst, t logic.Term) (logic.Term, error) {
	switch x := t.(type) {
	case logic.Var:
		return u.walk(x), nil

	case logic.Compound:
		if len(x.Args) == 0 {
			return x, nil
		}
		args, err := applyTerms(u, x.Args)
		if err != nil {
			return nil, err
		}
		return logic.Compound{Tag: x.Tag, Args: args}, nil

	case logic.Func:
		args := make([]logic.Term, len(x.Args))
		ground := true
		for i, a := range x.Args {
			a, err := ApplyTerm(u, a)
			if err != nil {
				return nil, err
			}
			a = resolve(u, a)
			if !logic.Ground(a) {
				ground = false
			}
			args[i] = a
		}
		f := logic.Func{Op: x.Op, Args: args}
		if !ground {
			return f, nil
		}
		return eval(f)

	default:
		return t, nil
	}
}

// ApplySentence rewrites every term of s under u, preserving its shape.
func ApplySentence(u Subst, s logic.Sentence) (logic.Sentence, error) {
	switch x := s.(type) {
	case logic.Pred:
		args, err := applyTerms(u, x.Args)
		if err != nil {
			return nil, err
		}
		return logic.Pred{Verb: x.Verb, Args: args}, nil

	case logic.Eq:
		l, r, err := applyPair(u, x.L, x.R)
		if err != nil {
			return nil, err
		}
		return logic.Eq{L: l, R: r}, nil

	case logic.NotEq:
		l, r, err := applyPair(u, x.L, x.R)
		if err != nil {
			return nil, err
		}
		return logic.NotEq{L: l, R: r}, nil

	case logic.And:
		l, err := ApplySentence(u, x.L)
		if err != nil {
			return nil, err
		}
		r, err := ApplySentence(u, x.R)
		if err != nil {
			return nil, err
		}
		return logic.And{L: l, R: r}, nil

	case logic.Or:
		l, err := ApplySentence(u, x.L)
		if err != nil {
			return nil, err
		}
		r, err := ApplySentence(u, x.R)
		if err != nil {
			return nil, err
		}
		return logic.Or{L: l, R: r}, nil

	case logic.Not:
		inner, err := ApplySentence(u, x.S)
		if err != nil {
			return nil, err
		}
		return logic.Not{S: inner}, nil

	case logic.Rule:
		head, err := ApplySentence(u, x.Head)
		if err != nil {
			return nil, err
		}
		out := logic.Rule{Head: head.(logic.Pred)}
		if x.Body != nil {
			if out.Body, err = ApplySentence(u, x.Body); err != nil {
				return nil, err
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %T", internalerr.ErrUnsupportedSentence, s)
	}
}

func applyTerms(u Subst, ts []logic.Term) ([]logic.Term, error) {
	if len(ts) == 0 {
		return ts, nil
	}
	out := make([]logic.Term, len(ts))
	for i, t := range ts {
		a, err := ApplyTerm(u, t)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func applyPair(u Subst, l, r logic.Term) (logic.Term, logic.Term, error) {
	l, err := ApplyTerm(u, l)
	if err != nil {
		return nil, nil, err
	}
	r, err = ApplyTerm(u, r)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func eval(f logic.Func) (logic.Term, error) {
	vals := make([]any, len(f.Args))
	for i, a := range f.Args {
		vals[i] = logic.Value(a)
	}
	out, err := f.Op.Call(vals)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %v", internalerr.ErrEvaluation, f, err)
	}
	return logic.C(out), nil
}
