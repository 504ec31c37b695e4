package unify

import (
	"fmt"

	"github.com/cognicore/horn/pkg/horn/internalerr"
	"github.com/cognicore/horn/pkg/horn/logic"
)

// Unify extends u so that x and y become structurally identical. It returns
// Fail when no such extension exists and a non-nil error for the fatal
// cases: arity mismatch, unevaluated function terms, schematic variables,
// occurs-check violations and composite sentences of different shapes.
func Unify(x, y logic.Expr, u Subst) (Subst, error) {
	if u.failed {
		return u, nil
	}

	switch a := x.(type) {
	case logic.Func:
		return Fail, fmt.Errorf("%w: %v", internalerr.ErrUnevaluatedFunc, a)
	case logic.SchemaVar:
		return Fail, fmt.Errorf("%w: schematic variable %v in unification", internalerr.ErrUnstandardized, a)
	}
	switch b := y.(type) {
	case logic.Func:
		return Fail, fmt.Errorf("%w: %v", internalerr.ErrUnevaluatedFunc, b)
	case logic.SchemaVar:
		return Fail, fmt.Errorf("%w: schematic variable %v in unification", internalerr.ErrUnstandardized, b)
	}

	if v, ok := x.(logic.Var); ok {
		return unifyVar(v, asTerm(y), u)
	}
	if v, ok := y.(logic.Var); ok {
		return unifyVar(v, asTerm(x), u)
	}

	switch a := x.(type) {
	case logic.Const:
		if b, ok := y.(logic.Const); ok && a.Equal(b) {
			return u, nil
		}
		return Fail, nil

	case logic.Compound:
		b, ok := y.(logic.Compound)
		if !ok || a.Tag != b.Tag || len(a.Args) != len(b.Args) {
			return Fail, nil
		}
		return unifyTerms(a.Args, b.Args, u)

	case logic.Pred:
		b, ok := y.(logic.Pred)
		if !ok {
			return sentenceMismatch(x, y)
		}
		if a.Verb != b.Verb {
			return Fail, nil
		}
		if len(a.Args) != len(b.Args) {
			return Fail, fmt.Errorf("%w: %v =?= %v", internalerr.ErrArityMismatch, a, b)
		}
		return unifyTerms(a.Args, b.Args, u)

	case logic.Eq:
		b, ok := y.(logic.Eq)
		if !ok {
			return sentenceMismatch(x, y)
		}
		return unifyTerms([]logic.Term{a.L, a.R}, []logic.Term{b.L, b.R}, u)

	case logic.NotEq:
		b, ok := y.(logic.NotEq)
		if !ok {
			return sentenceMismatch(x, y)
		}
		return unifyTerms([]logic.Term{a.L, a.R}, []logic.Term{b.L, b.R}, u)

	case logic.And:
		b, ok := y.(logic.And)
		if !ok {
			return sentenceMismatch(x, y)
		}
		return unifySentences([]logic.Sentence{a.L, a.R}, []logic.Sentence{b.L, b.R}, u)

	case logic.Or:
		b, ok := y.(logic.Or)
		if !ok {
			return sentenceMismatch(x, y)
		}
		return unifySentences([]logic.Sentence{a.L, a.R}, []logic.Sentence{b.L, b.R}, u)

	case logic.Not:
		b, ok := y.(logic.Not)
		if !ok {
			return sentenceMismatch(x, y)
		}
		return Unify(a.S, b.S, u)

	case logic.Rule:
		b, ok := y.(logic.Rule)
		if !ok {
			return sentenceMismatch(x, y)
		}
		if (a.Body == nil) != (b.Body == nil) {
			return Fail, fmt.Errorf("%w: %v =?= %v", internalerr.ErrUnsupportedSentence, a, b)
		}
		u, err := Unify(a.Head, b.Head, u)
		if err != nil || a.Body == nil {
			return u, err
		}
		return Unify(a.Body, b.Body, u)
	}

	return Fail, nil
}

// sentenceMismatch handles a sentence on the left paired with something of
// another shape: terms simply fail, other sentences are fatal.
func sentenceMismatch(x, y logic.Expr) (Subst, error) {
	if _, ok := y.(logic.Sentence); ok {
		return Fail, fmt.Errorf("%w: cannot unify %T with %T", internalerr.ErrUnsupportedSentence, x, y)
	}
	return Fail, nil
}

func unifyTerms(xs, ys []logic.Term, u Subst) (Subst, error) {
	for i := range xs {
		var err error
		u, err = Unify(xs[i], ys[i], u)
		if err != nil {
			return Fail, err
		}
		if u.failed {
			return u, nil
		}
	}
	return u, nil
}

func unifySentences(xs, ys []logic.Sentence, u Subst) (Subst, error) {
	for i := range xs {
		var err error
		u, err = Unify(xs[i], ys[i], u)
		if err != nil {
			return Fail, err
		}
		if u.failed {
			return u, nil
		}
	}
	return u, nil
}

// unifyVar binds v to z, or unifies through an existing binding.
func unifyVar(v logic.Var, z logic.Term, u Subst) (Subst, error) {
	if z == nil {
		// z was a sentence: a variable only stands for terms.
		return Fail, nil
	}
	if w, ok := z.(logic.Var); ok && w == v {
		return u, nil
	}
	if hasFunc(z) {
		return Fail, fmt.Errorf("%w: %v in %v", internalerr.ErrUnevaluatedFunc, v, z)
	}
	if occurs(v, z, u) {
		return Fail, fmt.Errorf("%w: %v in %v", internalerr.ErrOccursCheck, v, z)
	}
	if bound, ok := u.bindings[v]; ok {
		return Unify(bound, z, u)
	}
	if w, ok := z.(logic.Var); ok {
		if bound, ok := u.bindings[w]; ok {
			return Unify(v, bound, u)
		}
	}
	return u.Extend(v, z), nil
}

// hasFunc reports whether t carries a function term at any depth. Bound
// variables are not followed: their bindings already passed this check.
func hasFunc(t logic.Term) bool {
	switch x := t.(type) {
	case logic.Func:
		return true
	case logic.Compound:
		for _, a := range x.Args {
			if hasFunc(a) {
				return true
			}
		}
	}
	return false
}

// occurs reports whether v appears inside the structure z resolves to.
// A chain of variables ending at v itself is not an occurrence.
func occurs(v logic.Var, z logic.Term, u Subst) bool {
	z = u.walk(z)
	if _, ok := z.(logic.Var); ok {
		return false
	}
	return contains(v, z, u)
}

func contains(v logic.Var, t logic.Term, u Subst) bool {
	switch x := t.(type) {
	case logic.Var:
		if x == v {
			return true
		}
		if bound, ok := u.bindings[x]; ok {
			return contains(v, bound, u)
		}
		return false
	case logic.Compound:
		for _, a := range x.Args {
			if contains(v, a, u) {
				return true
			}
		}
	case logic.Func:
		for _, a := range x.Args {
			if contains(v, a, u) {
				return true
			}
		}
	}
	return false
}

func asTerm(e logic.Expr) logic.Term {
	t, _ := e.(logic.Term)
	return t
}
