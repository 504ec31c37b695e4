// Package builtin provides the foreign operators that Function terms apply:
// arithmetic, comparison and a few text helpers. Every operator is pure and
// deterministic.
package builtin

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cognicore/horn/pkg/horn/logic"
)

var (
	errDivByZero = errors.New("division by zero")
	errOverflow  = errors.New("integer overflow")
)

var (
	Add = logic.Operator{Name: "add", Symbol: "+", Arity: 2, Eval: arith(addInt, func(a, b float64) float64 { return a + b })}
	Sub = logic.Operator{Name: "sub", Symbol: "-", Arity: 2, Eval: arith(subInt, func(a, b float64) float64 { return a - b })}
	Mul = logic.Operator{Name: "mul", Symbol: "*", Arity: 2, Eval: arith(mulInt, func(a, b float64) float64 { return a * b })}
	Div = logic.Operator{Name: "div", Symbol: "/", Arity: 2, Eval: div}
	Mod = logic.Operator{Name: "mod", Symbol: "mod", Arity: 2, Eval: mod}
	Pow = logic.Operator{Name: "pow", Symbol: "**", Arity: 2, Eval: pow}
	Neg = logic.Operator{Name: "neg", Arity: 1, Eval: neg}
	Abs = logic.Operator{Name: "abs", Arity: 1, Eval: abs}
	Min = logic.Operator{Name: "min", Arity: 2, Eval: pick(func(c int) bool { return c <= 0 })}
	Max = logic.Operator{Name: "max", Arity: 2, Eval: pick(func(c int) bool { return c >= 0 })}

	GreaterThan  = logic.Operator{Name: "gt", Symbol: ">", Arity: 2, Eval: compare(func(c int) bool { return c > 0 })}
	GreaterEqual = logic.Operator{Name: "ge", Symbol: ">=", Arity: 2, Eval: compare(func(c int) bool { return c >= 0 })}
	LessThan     = logic.Operator{Name: "lt", Symbol: "<", Arity: 2, Eval: compare(func(c int) bool { return c < 0 })}
	LessEqual    = logic.Operator{Name: "le", Symbol: "=<", Arity: 2, Eval: compare(func(c int) bool { return c <= 0 })}

	Concat = logic.Operator{Name: "concat", Arity: -1, Eval: concat}
	Length = logic.Operator{Name: "length", Arity: 1, Eval: length}
	Upper  = logic.Operator{Name: "upper", Arity: 1, Eval: textFn(strings.ToUpper)}
	Lower  = logic.Operator{Name: "lower", Arity: 1, Eval: textFn(strings.ToLower)}
)

// Gt holds when l > r.
func Gt(l, r any) logic.Eq { return logic.Assert(logic.Fn(GreaterThan, l, r)) }

// Ge holds when l >= r.
func Ge(l, r any) logic.Eq { return logic.Assert(logic.Fn(GreaterEqual, l, r)) }

// Lt holds when l < r.
func Lt(l, r any) logic.Eq { return logic.Assert(logic.Fn(LessThan, l, r)) }

// Le holds when l <= r.
func Le(l, r any) logic.Eq { return logic.Assert(logic.Fn(LessEqual, l, r)) }

// Registry maps operator names to operators.
type Registry struct {
	byName map[string]logic.Operator
}

// NewRegistry returns a registry holding ops.
func NewRegistry(ops ...logic.Operator) *Registry {
	r := &Registry{byName: make(map[string]logic.Operator, len(ops))}
	for _, op := range ops {
		r.Register(op)
	}
	return r
}

// Default returns a registry with every operator of this package.
func Default() *Registry {
	return NewRegistry(Add, Sub, Mul, Div, Mod, Pow, Neg, Abs, Min, Max,
		GreaterThan, GreaterEqual, LessThan, LessEqual,
		Concat, Length, Upper, Lower)
}

// Register adds or replaces op under its name.
func (r *Registry) Register(op logic.Operator) {
	r.byName[op.Name] = op
}

// Lookup finds an operator by name.
func (r *Registry) Lookup(name string) (logic.Operator, bool) {
	op, ok := r.byName[name]
	return op, ok
}

// Names lists registered operator names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func number(v any) (int64, float64, bool, error) {
	switch x := v.(type) {
	case int64:
		return x, 0, false, nil
	case float64:
		return 0, x, true, nil
	default:
		return 0, 0, false, fmt.Errorf("expected a number, got %v (%T)", v, v)
	}
}

func addInt(a, b int64) (int64, error) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, fmt.Errorf("%w: %d + %d", errOverflow, a, b)
	}
	return c, nil
}

func subInt(a, b int64) (int64, error) {
	c := a - b
	if (c < a) != (b > 0) {
		return 0, fmt.Errorf("%w: %d - %d", errOverflow, a, b)
	}
	return c, nil
}

func mulInt(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, fmt.Errorf("%w: %d * %d", errOverflow, a, b)
	}
	return c, nil
}

// powInt squares and multiplies, failing as soon as a step leaves int64.
func powInt(base, exp int64) (int64, error) {
	out := int64(1)
	for exp > 0 {
		var err error
		if exp&1 == 1 {
			if out, err = mulInt(out, base); err != nil {
				return 0, err
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, err = mulInt(base, base); err != nil {
				return 0, err
			}
		}
	}
	return out, nil
}

func arith(ints func(a, b int64) (int64, error), floats func(a, b float64) float64) func([]any) (any, error) {
	return func(args []any) (any, error) {
		ai, af, aIsF, err := number(args[0])
		if err != nil {
			return nil, err
		}
		bi, bf, bIsF, err := number(args[1])
		if err != nil {
			return nil, err
		}
		if !aIsF && !bIsF {
			return ints(ai, bi)
		}
		if !aIsF {
			af = float64(ai)
		}
		if !bIsF {
			bf = float64(bi)
		}
		return floats(af, bf), nil
	}
}

// div keeps integer results when the division is exact.
func div(args []any) (any, error) {
	ai, af, aIsF, err := number(args[0])
	if err != nil {
		return nil, err
	}
	bi, bf, bIsF, err := number(args[1])
	if err != nil {
		return nil, err
	}
	if !aIsF && !bIsF {
		if bi == 0 {
			return nil, errDivByZero
		}
		if ai == math.MinInt64 && bi == -1 {
			return nil, fmt.Errorf("%w: %d / %d", errOverflow, ai, bi)
		}
		if ai%bi == 0 {
			return ai / bi, nil
		}
		return float64(ai) / float64(bi), nil
	}
	if !aIsF {
		af = float64(ai)
	}
	if !bIsF {
		bf = float64(bi)
	}
	if bf == 0 {
		return nil, errDivByZero
	}
	return af / bf, nil
}

func mod(args []any) (any, error) {
	a, ok1 := args[0].(int64)
	b, ok2 := args[1].(int64)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("mod expects integers, got %v and %v", args[0], args[1])
	}
	if b == 0 {
		return nil, errDivByZero
	}
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m, nil
}

func pow(args []any) (any, error) {
	ai, af, aIsF, err := number(args[0])
	if err != nil {
		return nil, err
	}
	bi, bf, bIsF, err := number(args[1])
	if err != nil {
		return nil, err
	}
	if !aIsF && !bIsF && bi >= 0 {
		return powInt(ai, bi)
	}
	if !aIsF {
		af = float64(ai)
	}
	if !bIsF {
		bf = float64(bi)
	}
	return math.Pow(af, bf), nil
}

func neg(args []any) (any, error) {
	i, f, isF, err := number(args[0])
	if err != nil {
		return nil, err
	}
	if isF {
		return -f, nil
	}
	return subInt(0, i)
}

func abs(args []any) (any, error) {
	i, f, isF, err := number(args[0])
	if err != nil {
		return nil, err
	}
	if isF {
		return math.Abs(f), nil
	}
	if i < 0 {
		return subInt(0, i)
	}
	return i, nil
}

// cmp orders two numbers or two strings.
func cmp(a, b any) (int, error) {
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 0, fmt.Errorf("cannot compare %v with %v", a, b)
		}
		return strings.Compare(sa, sb), nil
	}
	ai, af, aIsF, err := number(a)
	if err != nil {
		return 0, err
	}
	bi, bf, bIsF, err := number(b)
	if err != nil {
		return 0, err
	}
	if !aIsF && !bIsF {
		switch {
		case ai < bi:
			return -1, nil
		case ai > bi:
			return 1, nil
		}
		return 0, nil
	}
	if !aIsF {
		af = float64(ai)
	}
	if !bIsF {
		bf = float64(bi)
	}
	switch {
	case af < bf:
		return -1, nil
	case af > bf:
		return 1, nil
	}
	return 0, nil
}

func compare(ok func(int) bool) func([]any) (any, error) {
	return func(args []any) (any, error) {
		c, err := cmp(args[0], args[1])
		if err != nil {
			return nil, err
		}
		return ok(c), nil
	}
}

func pick(first func(int) bool) func([]any) (any, error) {
	return func(args []any) (any, error) {
		c, err := cmp(args[0], args[1])
		if err != nil {
			return nil, err
		}
		if first(c) {
			return args[0], nil
		}
		return args[1], nil
	}
}

func concat(args []any) (any, error) {
	var b strings.Builder
	for _, a := range args {
		switch x := a.(type) {
		case string:
			b.WriteString(x)
		case logic.Term:
			return nil, fmt.Errorf("concat expects constants, got %v", x)
		default:
			fmt.Fprint(&b, x)
		}
	}
	return b.String(), nil
}

// length counts the runes of a text or the cells of a proper list.
func length(args []any) (any, error) {
	switch x := args[0].(type) {
	case string:
		return int64(len([]rune(x))), nil
	case logic.Compound:
		n := int64(0)
		var t logic.Term = x
		for {
			c, ok := t.(logic.Compound)
			if !ok {
				return nil, fmt.Errorf("length of improper list %v", x)
			}
			if c.Tag == logic.NilTag && len(c.Args) == 0 {
				return n, nil
			}
			if c.Tag != logic.ConsTag || len(c.Args) != 2 {
				return nil, fmt.Errorf("length of non-list %v", x)
			}
			n++
			t = c.Args[1]
		}
	default:
		return nil, fmt.Errorf("length expects text or a list, got %v", args[0])
	}
}

func textFn(f func(string) string) func([]any) (any, error) {
	return func(args []any) (any, error) {
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("expected text, got %v", args[0])
		}
		return f(s), nil
	}
}
