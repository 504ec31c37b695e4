package unify

import "github.com/cognicore/horn/pkg/horn/logic"

// Closure rewrites every binding of u under u itself until nothing changes,
// so no binding refers to another bound variable. It is applied once per
// finished proof. Unify never binds a function term, so every value here
// is final.
func Closure(u Subst) Subst {
	if u.failed {
		return u
	}
	m := make(map[logic.Var]logic.Term, len(u.bindings))
	for v := range u.bindings {
		m[v] = resolve(u, v)
	}
	return Subst{bindings: m}
}

// resolve is the root of t under u with every nested variable replaced.
func resolve(u Subst, t logic.Term) logic.Term {
	t = u.walk(t)
	switch x := t.(type) {
	case logic.Compound:
		if len(x.Args) == 0 {
			return x
		}
		args := make([]logic.Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = resolve(u, a)
		}
		return logic.Compound{Tag: x.Tag, Args: args}
	case logic.Func:
		args := make([]logic.Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = resolve(u, a)
		}
		return logic.Func{Op: x.Op, Args: args}
	default:
		return t
	}
}
