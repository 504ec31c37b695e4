// Package unify implements substitutions, unification with occurs-check,
// substitution application with embedded function evaluation, and the
// fixpoint closure applied to finished proofs.
package unify

import (
	"sort"
	"strings"

	"github.com/cognicore/horn/pkg/horn/logic"
)

// Subst maps variables to terms. The zero value is the empty substitution.
// A Subst is never modified after it is built: Extend returns a copy, so a
// caller's substitution survives for backtracking into sibling branches.
type Subst struct {
	bindings map[logic.Var]logic.Term
	failed   bool
}

// Fail is the failed substitution. Unify short-circuits on it.
var Fail = Subst{failed: true}

// Failed reports whether u is Fail.
func (u Subst) Failed() bool { return u.failed }

// Len is the number of bindings.
func (u Subst) Len() int { return len(u.bindings) }

// Lookup returns the term bound to v.
func (u Subst) Lookup(v logic.Var) (logic.Term, bool) {
	t, ok := u.bindings[v]
	return t, ok
}

// Extend returns a new substitution that also binds v to t.
func (u Subst) Extend(v logic.Var, t logic.Term) Subst {
	m := make(map[logic.Var]logic.Term, len(u.bindings)+1)
	for k, x := range u.bindings {
		m[k] = x
	}
	m[v] = t
	return Subst{bindings: m}
}

// Vars lists the bound variables ordered by name, then generation.
func (u Subst) Vars() []logic.Var {
	out := make([]logic.Var, 0, len(u.bindings))
	for v := range u.bindings {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Gen < out[j].Gen
	})
	return out
}

// Map copies the bindings into a plain map.
func (u Subst) Map() map[logic.Var]logic.Term {
	m := make(map[logic.Var]logic.Term, len(u.bindings))
	for k, t := range u.bindings {
		m[k] = t
	}
	return m
}

// Of builds a substitution from a map. It is mainly useful in tests.
func Of(m map[logic.Var]logic.Term) Subst {
	b := make(map[logic.Var]logic.Term, len(m))
	for k, t := range m {
		b[k] = t
	}
	return Subst{bindings: b}
}

func (u Subst) String() string {
	if u.failed {
		return "FAIL"
	}
	vars := u.Vars()
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = v.String() + ": " + u.bindings[v].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// walk follows a chain of bound variables to its end.
func (u Subst) walk(t logic.Term) logic.Term {
	for {
		v, ok := t.(logic.Var)
		if !ok {
			return t
		}
		next, ok := u.bindings[v]
		if !ok {
			return t
		}
		t = next
	}
}
