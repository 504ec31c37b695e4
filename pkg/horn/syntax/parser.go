// Package syntax reads knowledge bases and queries written in a small
// Prolog-like notation:
//
//	# facts
//	father(pap, a).
//	# rules; uppercase names are variables
//	sibling(X, Y) :- father(Z, X), father(Z, Y), X \= Y.
//	factorial(0, 1).
//	factorial(N, F) :- N > 0, factorial(N - 1, G), F is N * G.
//
// Variables in a program become schematic variables; variables in a query
// become query variables.
package syntax

import (
	"fmt"
	"strconv"

	"github.com/cognicore/horn/pkg/horn/builtin"
	"github.com/cognicore/horn/pkg/horn/internalerr"
	"github.com/cognicore/horn/pkg/horn/logic"
)

// Parser turns text into clauses and goals. Names registered in its operator
// registry become function terms; other applications become compound terms.
type Parser struct {
	ops *builtin.Registry
}

// New creates a parser using ops, or builtin.Default() when ops is nil.
func New(ops *builtin.Registry) *Parser {
	if ops == nil {
		ops = builtin.Default()
	}
	return &Parser{ops: ops}
}

// ParseProgram reads clauses with the default operators.
func ParseProgram(src string) ([]logic.Sentence, error) {
	return New(nil).Program(src)
}

// ParseQuery reads a goal with the default operators.
func ParseQuery(src string) (logic.Sentence, error) {
	return New(nil).Query(src)
}

// Program reads a sequence of facts and rules, each terminated by a period.
func (p *Parser) Program(src string) ([]logic.Sentence, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	st := &state{toks: toks, ops: p.ops, program: true}

	var out []logic.Sentence
	for !st.at(tEOF, "") {
		c, err := st.clause()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Query reads one goal. A leading "?-" and a trailing period are optional.
func (p *Parser) Query(src string) (logic.Sentence, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	st := &state{toks: toks, ops: p.ops}

	st.accept(tPunct, "?-")
	g, err := st.body()
	if err != nil {
		return nil, err
	}
	st.accept(tPunct, ".")
	if !st.at(tEOF, "") {
		return nil, st.errorf("unexpected %v after query", st.peek())
	}
	return g, nil
}

type state struct {
	toks    []token
	pos     int
	ops     *builtin.Registry
	program bool
	anon    int
}

func (s *state) peek() token { return s.toks[s.pos] }

func (s *state) next() token {
	t := s.toks[s.pos]
	if t.kind != tEOF {
		s.pos++
	}
	return t
}

// at reports whether the next token has kind k and, if text is not empty,
// that text.
func (s *state) at(k kind, text string) bool {
	t := s.peek()
	return t.kind == k && (text == "" || t.text == text)
}

func (s *state) accept(k kind, text string) bool {
	if s.at(k, text) {
		s.pos++
		return true
	}
	return false
}

func (s *state) expect(text string) error {
	if !s.accept(tPunct, text) {
		return s.errorf("expected %q, got %v", text, s.peek())
	}
	return nil
}

func (s *state) errorf(format string, args ...any) error {
	t := s.peek()
	return fmt.Errorf("%w: %d:%d: %s", internalerr.ErrInvalidInput, t.line, t.col, fmt.Sprintf(format, args...))
}

func (s *state) clause() (logic.Sentence, error) {
	head, err := s.predicate()
	if err != nil {
		return nil, err
	}
	if s.accept(tPunct, ":-") {
		body, err := s.body()
		if err != nil {
			return nil, err
		}
		if err := s.expect("."); err != nil {
			return nil, err
		}
		return logic.Rule{Head: head, Body: body}, nil
	}
	if err := s.expect("."); err != nil {
		return nil, err
	}
	return head, nil
}

func (s *state) predicate() (logic.Pred, error) {
	if !s.at(tIdent, "") {
		return logic.Pred{}, s.errorf("expected a predicate name, got %v", s.peek())
	}
	p := logic.Pred{Verb: s.next().text}
	if s.at(tPunct, "(") {
		args, err := s.args()
		if err != nil {
			return logic.Pred{}, err
		}
		p.Args = args
	}
	return p, nil
}

// body parses disjunctions of conjunctions.
func (s *state) body() (logic.Sentence, error) {
	l, err := s.conjunction()
	if err != nil {
		return nil, err
	}
	for s.accept(tPunct, ";") {
		r, err := s.conjunction()
		if err != nil {
			return nil, err
		}
		l = logic.Or{L: l, R: r}
	}
	return l, nil
}

func (s *state) conjunction() (logic.Sentence, error) {
	l, err := s.goal()
	if err != nil {
		return nil, err
	}
	for s.accept(tPunct, ",") {
		r, err := s.goal()
		if err != nil {
			return nil, err
		}
		l = logic.And{L: l, R: r}
	}
	return l, nil
}

func (s *state) goal() (logic.Sentence, error) {
	if s.accept(tPunct, `\+`) || s.accept(tIdent, "not") {
		inner, err := s.goal()
		if err != nil {
			return nil, err
		}
		return logic.Not{S: inner}, nil
	}

	if s.at(tPunct, "(") {
		// Either a parenthesized goal or a term such as (X + 1) > 2.
		save := s.pos
		s.next()
		if g, err := s.body(); err == nil && s.accept(tPunct, ")") && !s.atComparison() && !s.atArithmetic() {
			return g, nil
		}
		s.pos = save
		return s.comparison()
	}

	if s.at(tIdent, "") {
		save := s.pos
		p, err := s.predicate()
		if err == nil && !s.atComparison() && !s.atArithmetic() {
			switch {
			case p.Verb == "true" && len(p.Args) == 0:
				return logic.Assert(logic.C(true)), nil
			case p.Verb == "fail" && len(p.Args) == 0:
				return logic.Assert(logic.C(false)), nil
			}
			return p, nil
		}
		s.pos = save
	}
	return s.comparison()
}

func (s *state) atComparison() bool {
	t := s.peek()
	if t.kind == tIdent {
		return t.text == "is"
	}
	if t.kind != tPunct {
		return false
	}
	switch t.text {
	case "=", "==", `\=`, "!=", ">", ">=", "<", "=<", "<=":
		return true
	}
	return false
}

func (s *state) atArithmetic() bool {
	t := s.peek()
	if t.kind == tIdent {
		return t.text == "mod"
	}
	if t.kind != tPunct {
		return false
	}
	switch t.text {
	case "+", "-", "*", "/", "**":
		return true
	}
	return false
}

func (s *state) comparison() (logic.Sentence, error) {
	l, err := s.expr()
	if err != nil {
		return nil, err
	}
	if !s.atComparison() {
		return nil, s.errorf("expected a goal, got %v", s.peek())
	}
	op := s.next().text
	r, err := s.expr()
	if err != nil {
		return nil, err
	}

	switch op {
	case "=", "==", "is":
		return logic.Eq{L: l, R: r}, nil
	case `\=`, "!=":
		return logic.NotEq{L: l, R: r}, nil
	case ">":
		return builtin.Gt(l, r), nil
	case ">=":
		return builtin.Ge(l, r), nil
	case "<":
		return builtin.Lt(l, r), nil
	default:
		return builtin.Le(l, r), nil
	}
}

// expr parses additive expressions.
func (s *state) expr() (logic.Term, error) {
	l, err := s.product()
	if err != nil {
		return nil, err
	}
	for {
		var op logic.Operator
		switch {
		case s.accept(tPunct, "+"):
			op = builtin.Add
		case s.accept(tPunct, "-"):
			op = builtin.Sub
		default:
			return l, nil
		}
		r, err := s.product()
		if err != nil {
			return nil, err
		}
		l = logic.Func{Op: op, Args: []logic.Term{l, r}}
	}
}

func (s *state) product() (logic.Term, error) {
	l, err := s.power()
	if err != nil {
		return nil, err
	}
	for {
		var op logic.Operator
		switch {
		case s.accept(tPunct, "*"):
			op = builtin.Mul
		case s.accept(tPunct, "/"):
			op = builtin.Div
		case s.accept(tIdent, "mod"):
			op = builtin.Mod
		default:
			return l, nil
		}
		r, err := s.power()
		if err != nil {
			return nil, err
		}
		l = logic.Func{Op: op, Args: []logic.Term{l, r}}
	}
}

func (s *state) power() (logic.Term, error) {
	l, err := s.unary()
	if err != nil {
		return nil, err
	}
	if s.accept(tPunct, "**") {
		r, err := s.power()
		if err != nil {
			return nil, err
		}
		return logic.Func{Op: builtin.Pow, Args: []logic.Term{l, r}}, nil
	}
	return l, nil
}

func (s *state) unary() (logic.Term, error) {
	if s.accept(tPunct, "-") {
		if s.at(tInt, "") || s.at(tFloat, "") {
			c, err := s.number()
			if err != nil {
				return nil, err
			}
			switch v := c.Value.(type) {
			case int64:
				return logic.C(-v), nil
			case float64:
				return logic.C(-v), nil
			}
		}
		t, err := s.unary()
		if err != nil {
			return nil, err
		}
		return logic.Func{Op: builtin.Neg, Args: []logic.Term{t}}, nil
	}
	return s.primary()
}

func (s *state) number() (logic.Const, error) {
	t := s.next()
	if t.kind == tInt {
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return logic.Const{}, fmt.Errorf("%w: %d:%d: %v", internalerr.ErrInvalidInput, t.line, t.col, err)
		}
		return logic.Const{Value: n}, nil
	}
	f, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return logic.Const{}, fmt.Errorf("%w: %d:%d: %v", internalerr.ErrInvalidInput, t.line, t.col, err)
	}
	return logic.Const{Value: f}, nil
}

func (s *state) primary() (logic.Term, error) {
	t := s.peek()
	switch t.kind {
	case tInt, tFloat:
		return s.number()

	case tString:
		s.next()
		return logic.C(t.text), nil

	case tVar:
		s.next()
		return s.variable(t.text), nil

	case tIdent:
		s.next()
		switch t.text {
		case "true":
			return logic.C(true), nil
		case "false":
			return logic.C(false), nil
		}
		if !s.at(tPunct, "(") {
			return logic.C(t.text), nil
		}
		args, err := s.args()
		if err != nil {
			return nil, err
		}
		if op, ok := s.ops.Lookup(t.text); ok {
			if op.Arity >= 0 && op.Arity != len(args) {
				return nil, fmt.Errorf("%w: %d:%d: %s takes %d arguments, got %d",
					internalerr.ErrInvalidInput, t.line, t.col, op.Name, op.Arity, len(args))
			}
			return logic.Func{Op: op, Args: args}, nil
		}
		return logic.Compound{Tag: t.text, Args: args}, nil

	case tPunct:
		switch t.text {
		case "[":
			return s.list()
		case "(":
			s.next()
			e, err := s.expr()
			if err != nil {
				return nil, err
			}
			if err := s.expect(")"); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, s.errorf("expected a term, got %v", t)
}

func (s *state) variable(name string) logic.Term {
	if name == "_" {
		s.anon++
		name = fmt.Sprintf("_#%d", s.anon)
	}
	if s.program {
		return logic.S(name)
	}
	return logic.V(name)
}

func (s *state) args() ([]logic.Term, error) {
	if err := s.expect("("); err != nil {
		return nil, err
	}
	if s.accept(tPunct, ")") {
		return nil, nil
	}
	var out []logic.Term
	for {
		t, err := s.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if s.accept(tPunct, ")") {
			return out, nil
		}
		if err := s.expect(","); err != nil {
			return nil, err
		}
	}
}

func (s *state) list() (logic.Term, error) {
	if err := s.expect("["); err != nil {
		return nil, err
	}
	if s.accept(tPunct, "]") {
		return logic.Nil, nil
	}
	var elems []logic.Term
	var tail logic.Term = logic.Nil
	for {
		e, err := s.expr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if s.accept(tPunct, ",") {
			continue
		}
		if s.accept(tPunct, "|") {
			if tail, err = s.expr(); err != nil {
				return nil, err
			}
		}
		if err := s.expect("]"); err != nil {
			return nil, err
		}
		break
	}
	for i := len(elems) - 1; i >= 0; i-- {
		tail = logic.Compound{Tag: logic.ConsTag, Args: []logic.Term{elems[i], tail}}
	}
	return tail, nil
}
