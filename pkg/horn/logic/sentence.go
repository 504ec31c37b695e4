package logic

// Sentence is one of Pred, Eq, NotEq, And, Or, Not or Rule.
type Sentence interface {
	Expr
	isSentence()
}

// Pred applies a verb to an ordered list of terms.
type Pred struct {
	Verb string
	Args []Term
}

// Eq holds when its two terms unify.
type Eq struct {
	L, R Term
}

// NotEq holds when its two terms do not unify. It never binds variables.
type NotEq struct {
	L, R Term
}

// And is a left-to-right conjunction.
type And struct {
	L, R Sentence
}

// Or is a left-to-right disjunction.
type Or struct {
	L, R Sentence
}

// Not is negation as failure.
type Not struct {
	S Sentence
}

// Rule is a Horn clause Head :- Body. A nil Body makes the rule behave
// like a fact.
type Rule struct {
	Head Pred
	Body Sentence
}

func (Pred) isExpr()  {}
func (Eq) isExpr()    {}
func (NotEq) isExpr() {}
func (And) isExpr()   {}
func (Or) isExpr()    {}
func (Not) isExpr()   {}
func (Rule) isExpr()  {}

func (Pred) isSentence()  {}
func (Eq) isSentence()    {}
func (NotEq) isSentence() {}
func (And) isSentence()   {}
func (Or) isSentence()    {}
func (Not) isSentence()   {}
func (Rule) isSentence()  {}

// Arity is the number of arguments.
func (p Pred) Arity() int { return len(p.Args) }

// Key is the index key of a fact.
func (p Pred) Key() string { return p.Verb }

// Key is the index key of a rule: its head's verb.
func (r Rule) Key() string { return r.Head.Verb }

// P builds a predicate; arguments that are not terms are wrapped with C.
func P(verb string, args ...any) Pred {
	return Pred{Verb: verb, Args: terms(args)}
}

// Equals builds an equality goal.
func Equals(l, r any) Eq { return Eq{L: C(l), R: C(r)} }

// Differs builds an inequality goal.
func Differs(l, r any) NotEq { return NotEq{L: C(l), R: C(r)} }

// Assert holds when f evaluates to true.
func Assert(f Term) Eq { return Eq{L: Const{Value: true}, R: f} }

// Conj folds goals into a left-nested conjunction. It returns nil for no goals.
func Conj(goals ...Sentence) Sentence {
	if len(goals) == 0 {
		return nil
	}
	out := goals[0]
	for _, g := range goals[1:] {
		out = And{L: out, R: g}
	}
	return out
}

// Disj folds goals into a left-nested disjunction. It returns nil for no goals.
func Disj(goals ...Sentence) Sentence {
	if len(goals) == 0 {
		return nil
	}
	out := goals[0]
	for _, g := range goals[1:] {
		out = Or{L: out, R: g}
	}
	return out
}

// If builds the rule head :- body1, body2, ...
func If(head Pred, body ...Sentence) Rule {
	return Rule{Head: head, Body: Conj(body...)}
}
