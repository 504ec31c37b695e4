// Package logic defines the term and sentence values the engine reasons over.
//
// Terms and sentences are closed sets: every consumer switches over the
// concrete types declared here. Values are immutable once built; slices held
// by a value must not be modified after construction.
package logic

import (
	"fmt"
	"math"
	"reflect"
)

// Expr is anything that can take part in unification: a Term or a Sentence.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Term is one of Const, Var, SchemaVar, Compound or Func.
type Term interface {
	Expr
	isTerm()
}

// Const wraps an atomic host value: a number, text, boolean or opaque symbol.
// Integers are normalized to int64 and floats to float64 by C.
type Const struct {
	Value any
}

// Var is a query or resolution variable. Gen is zero for variables written
// by the caller and positive for variables minted by standardize-apart.
type Var struct {
	Name string
	Gen  uint64
}

// SchemaVar is a clause-local variable that only appears inside stored facts
// and rules. It is replaced by a fresh Var each time the clause is used.
type SchemaVar struct {
	Mark string
}

// Compound is a constructor tag applied to an ordered list of terms.
type Compound struct {
	Tag  string
	Args []Term
}

// Func is a pending application of a foreign operator. It is evaluated as
// soon as all of its arguments are ground.
type Func struct {
	Op   Operator
	Args []Term
}

// Operator is a host-provided pure function over evaluated argument values.
// Arity < 0 means variadic. Symbol is the infix spelling, if any.
type Operator struct {
	Name   string
	Symbol string
	Arity  int
	Eval   func(args []any) (any, error)
}

func (Const) isExpr()     {}
func (Var) isExpr()       {}
func (SchemaVar) isExpr() {}
func (Compound) isExpr()  {}
func (Func) isExpr()      {}

func (Const) isTerm()     {}
func (Var) isTerm()       {}
func (SchemaVar) isTerm() {}
func (Compound) isTerm()  {}
func (Func) isTerm()      {}

// Internal reports whether v was minted by standardize-apart.
func (v Var) Internal() bool { return v.Gen > 0 }

// Call applies the operator to already-evaluated argument values.
func (op Operator) Call(args []any) (any, error) {
	if op.Eval == nil {
		return nil, fmt.Errorf("operator %s has no implementation", op.Name)
	}
	if op.Arity >= 0 && len(args) != op.Arity {
		return nil, fmt.Errorf("operator %s expects %d arguments, got %d", op.Name, op.Arity, len(args))
	}
	return op.Eval(args)
}

// Equal reports whether two constants hold the same value. Integers and
// floats compare numerically.
func (c Const) Equal(o Const) bool {
	return equalValues(c.Value, o.Value)
}

func equalValues(a, b any) bool {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return x == y
		case float64:
			return float64(x) == y
		}
		return false
	case float64:
		switch y := b.(type) {
		case int64:
			return x == float64(y)
		case float64:
			return x == y
		}
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// C wraps a host value as a constant term. A value that already is a Term is
// returned unchanged.
func C(v any) Term {
	switch x := v.(type) {
	case Term:
		return x
	case int:
		return Const{Value: int64(x)}
	case int8:
		return Const{Value: int64(x)}
	case int16:
		return Const{Value: int64(x)}
	case int32:
		return Const{Value: int64(x)}
	case uint:
		return C(uint64(x))
	case uint8:
		return Const{Value: int64(x)}
	case uint16:
		return Const{Value: int64(x)}
	case uint32:
		return Const{Value: int64(x)}
	case uint64:
		// Values past the int64 range keep their magnitude as floats.
		if x > math.MaxInt64 {
			return Const{Value: float64(x)}
		}
		return Const{Value: int64(x)}
	case float32:
		return Const{Value: float64(x)}
	}
	return Const{Value: v}
}

// V returns the query variable with the given name.
func V(name string) Var { return Var{Name: name} }

// S returns the schematic variable with the given mark.
func S(mark string) SchemaVar { return SchemaVar{Mark: mark} }

// Comp builds a compound term; arguments that are not terms are wrapped with C.
func Comp(tag string, args ...any) Compound {
	return Compound{Tag: tag, Args: terms(args)}
}

// Fn builds a function term applying op to args.
func Fn(op Operator, args ...any) Func {
	return Func{Op: op, Args: terms(args)}
}

// List tags used by Cons and Nil.
const (
	ConsTag = "cons"
	NilTag  = "nil"
)

// Nil is the empty list.
var Nil = Compound{Tag: NilTag}

// Cons builds a list cell.
func Cons(head, tail any) Compound {
	return Comp(ConsTag, head, tail)
}

// List builds a proper list from its elements.
func List(elems ...any) Term {
	var out Term = Nil
	for i := len(elems) - 1; i >= 0; i-- {
		out = Cons(elems[i], out)
	}
	return out
}

func terms(args []any) []Term {
	if len(args) == 0 {
		return nil
	}
	out := make([]Term, len(args))
	for i, a := range args {
		out[i] = C(a)
	}
	return out
}

// Ground reports whether t contains no variable of either kind and no
// pending function application.
func Ground(t Term) bool {
	switch x := t.(type) {
	case Const:
		return true
	case Compound:
		for _, a := range x.Args {
			if !Ground(a) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Value extracts the host value handed to foreign operators: the wrapped
// value for a constant, the term itself otherwise.
func Value(t Term) any {
	if c, ok := t.(Const); ok {
		return c.Value
	}
	return t
}
