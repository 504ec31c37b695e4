// Package standardize renames the schematic variables of stored clauses to
// fresh variables each time a clause is used.
package standardize

import "github.com/cognicore/horn/pkg/horn/logic"

// Renamer mints fresh variables. Each distinct mark seen in one walk gets the
// next generation number; generations start at 1 so that generation 0 stays
// reserved for caller-written variables.
//
// A Renamer belongs to a single query and is not safe for concurrent use.
type Renamer struct {
	gen uint64
}

// Reset sets the generation counter back to zero.
func (r *Renamer) Reset() { r.gen = 0 }

// Generation is the last generation handed out.
func (r *Renamer) Generation() uint64 { return r.gen }

// Pred returns a copy of p with fresh variables.
func (r *Renamer) Pred(p logic.Pred) logic.Pred {
	return r.walk().pred(p)
}

// Rule returns a copy of rl with fresh variables shared between head and body.
func (r *Renamer) Rule(rl logic.Rule) logic.Rule {
	w := r.walk()
	out := logic.Rule{Head: w.pred(rl.Head)}
	if rl.Body != nil {
		out.Body = w.sentence(rl.Body)
	}
	return out
}

// Sentence returns a copy of s with fresh variables.
func (r *Renamer) Sentence(s logic.Sentence) logic.Sentence {
	return r.walk().sentence(s)
}

func (r *Renamer) walk() *walker {
	return &walker{r: r, env: make(map[string]logic.Var)}
}

// walker memoizes marks for one clause.
type walker struct {
	r   *Renamer
	env map[string]logic.Var
}

func (w *walker) term(t logic.Term) logic.Term {
	switch x := t.(type) {
	case logic.SchemaVar:
		if v, ok := w.env[x.Mark]; ok {
			return v
		}
		w.r.gen++
		v := logic.Var{Name: x.Mark, Gen: w.r.gen}
		w.env[x.Mark] = v
		return v
	case logic.Compound:
		if len(x.Args) == 0 {
			return x
		}
		return logic.Compound{Tag: x.Tag, Args: w.terms(x.Args)}
	case logic.Func:
		return logic.Func{Op: x.Op, Args: w.terms(x.Args)}
	default:
		return t
	}
}

func (w *walker) terms(ts []logic.Term) []logic.Term {
	if len(ts) == 0 {
		return ts
	}
	out := make([]logic.Term, len(ts))
	for i, t := range ts {
		out[i] = w.term(t)
	}
	return out
}

func (w *walker) pred(p logic.Pred) logic.Pred {
	return logic.Pred{Verb: p.Verb, Args: w.terms(p.Args)}
}

func (w *walker) sentence(s logic.Sentence) logic.Sentence {
	switch x := s.(type) {
	case logic.Pred:
		return w.pred(x)
	case logic.Eq:
		return logic.Eq{L: w.term(x.L), R: w.term(x.R)}
	case logic.NotEq:
		return logic.NotEq{L: w.term(x.L), R: w.term(x.R)}
	case logic.And:
		return logic.And{L: w.sentence(x.L), R: w.sentence(x.R)}
	case logic.Or:
		return logic.Or{L: w.sentence(x.L), R: w.sentence(x.R)}
	case logic.Not:
		return logic.Not{S: w.sentence(x.S)}
	case logic.Rule:
		out := logic.Rule{Head: w.pred(x.Head)}
		if x.Body != nil {
			out.Body = w.sentence(x.Body)
		}
		return out
	default:
		return s
	}
}

// HasSchemaVars reports whether s mentions a schematic variable.
func HasSchemaVars(s logic.Sentence) bool {
	found := false
	visit(s, func(t logic.Term) {
		if _, ok := t.(logic.SchemaVar); ok {
			found = true
		}
	})
	return found
}

// QueryVars lists the caller-written variables of s in order of first
// appearance.
func QueryVars(s logic.Sentence) []logic.Var {
	var out []logic.Var
	seen := make(map[logic.Var]bool)
	visit(s, func(t logic.Term) {
		if v, ok := t.(logic.Var); ok && !v.Internal() && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	})
	return out
}

// visit calls f on every term of s, depth first.
func visit(s logic.Sentence, f func(logic.Term)) {
	var term func(logic.Term)
	term = func(t logic.Term) {
		f(t)
		switch x := t.(type) {
		case logic.Compound:
			for _, a := range x.Args {
				term(a)
			}
		case logic.Func:
			for _, a := range x.Args {
				term(a)
			}
		}
	}
	var sentence func(logic.Sentence)
	sentence = func(s logic.Sentence) {
		switch x := s.(type) {
		case logic.Pred:
			for _, a := range x.Args {
				term(a)
			}
		case logic.Eq:
			term(x.L)
			term(x.R)
		case logic.NotEq:
			term(x.L)
			term(x.R)
		case logic.And:
			sentence(x.L)
			sentence(x.R)
		case logic.Or:
			sentence(x.L)
			sentence(x.R)
		case logic.Not:
			sentence(x.S)
		case logic.Rule:
			sentence(x.Head)
			if x.Body != nil {
				sentence(x.Body)
			}
		}
	}
	sentence(s)
}
