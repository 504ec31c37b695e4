package builtin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/horn/pkg/horn/logic"
)

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   logic.Operator
		args []any
		want any
	}{
		{"add ints", Add, []any{int64(2), int64(3)}, int64(5)},
		{"add mixed", Add, []any{int64(2), 0.5}, 2.5},
		{"sub", Sub, []any{int64(4), int64(1)}, int64(3)},
		{"mul", Mul, []any{int64(4), int64(6)}, int64(24)},
		{"exact div", Div, []any{int64(8), int64(2)}, int64(4)},
		{"inexact div", Div, []any{int64(7), int64(2)}, 3.5},
		{"mod", Mod, []any{int64(7), int64(3)}, int64(1)},
		{"mod negative", Mod, []any{int64(-7), int64(3)}, int64(2)},
		{"pow", Pow, []any{int64(2), int64(10)}, int64(1024)},
		{"pow largest", Pow, []any{int64(2), int64(62)}, int64(1) << 62},
		{"pow huge exponent of one", Pow, []any{int64(1), int64(1) << 40}, int64(1)},
		{"pow huge exponent of minus one", Pow, []any{int64(-1), int64(1)<<40 + 1}, int64(-1)},
		{"mul to min", Mul, []any{int64(math.MinInt64 / 2), int64(2)}, int64(math.MinInt64)},
		{"neg", Neg, []any{int64(5)}, int64(-5)},
		{"abs", Abs, []any{-2.5}, 2.5},
		{"min", Min, []any{int64(3), int64(9)}, int64(3)},
		{"max", Max, []any{int64(3), int64(9)}, int64(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op.Call(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArithmeticErrors(t *testing.T) {
	_, err := Div.Call([]any{int64(1), int64(0)})
	assert.ErrorIs(t, err, errDivByZero)

	_, err = Mod.Call([]any{1.5, int64(1)})
	assert.Error(t, err)

	_, err = Add.Call([]any{"a", int64(1)})
	assert.Error(t, err)
}

func TestIntegerOverflow(t *testing.T) {
	tests := []struct {
		name string
		op   logic.Operator
		args []any
	}{
		{"add", Add, []any{int64(math.MaxInt64), int64(1)}},
		{"add negative", Add, []any{int64(math.MinInt64), int64(-1)}},
		{"sub", Sub, []any{int64(math.MinInt64), int64(1)}},
		{"sub negative", Sub, []any{int64(0), int64(math.MinInt64)}},
		{"mul", Mul, []any{int64(5109094217170944), int64(10000)}},
		{"mul min by minus one", Mul, []any{int64(math.MinInt64), int64(-1)}},
		{"div min by minus one", Div, []any{int64(math.MinInt64), int64(-1)}},
		{"pow", Pow, []any{int64(2), int64(63)}},
		{"pow huge exponent", Pow, []any{int64(3), int64(1) << 40}},
		{"neg", Neg, []any{int64(math.MinInt64)}},
		{"abs", Abs, []any{int64(math.MinInt64)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op.Call(tt.args)
			assert.ErrorIs(t, err, errOverflow)
		})
	}

	got, err := Add.Call([]any{int64(math.MaxInt64 - 1), int64(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)
}

func TestComparisons(t *testing.T) {
	got, err := GreaterEqual.Call([]any{int64(0), int64(0)})
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = LessThan.Call([]any{"abc", "abd"})
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = GreaterThan.Call([]any{int64(1), 1.5})
	require.NoError(t, err)
	assert.Equal(t, false, got)

	_, err = LessEqual.Call([]any{"a", int64(1)})
	assert.Error(t, err)
}

func TestText(t *testing.T) {
	got, err := Concat.Call([]any{"n", int64(1), "-", true})
	require.NoError(t, err)
	assert.Equal(t, "n1-true", got)

	got, err = Length.Call([]any{logic.List(1, 2, 3)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)

	got, err = Length.Call([]any{"héllo"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)

	_, err = Length.Call([]any{logic.Cons(1, logic.V("T"))})
	assert.Error(t, err)

	got, err = Upper.Call([]any{"pap"})
	require.NoError(t, err)
	assert.Equal(t, "PAP", got)
}

func TestComparisonSentences(t *testing.T) {
	s := Ge(logic.S("x"), 0)
	assert.Equal(t, logic.Const{Value: true}, s.L)
	f, ok := s.R.(logic.Func)
	require.True(t, ok)
	assert.Equal(t, "ge", f.Op.Name)
	assert.Equal(t, "(?x >= 0)", f.String())
}

func TestRegistry(t *testing.T) {
	r := Default()
	op, ok := r.Lookup("mul")
	require.True(t, ok)
	assert.Equal(t, "*", op.Symbol)

	_, ok = r.Lookup("launch")
	assert.False(t, ok)

	r.Register(logic.Operator{Name: "launch", Arity: 0, Eval: func([]any) (any, error) { return "ok", nil }})
	assert.Contains(t, r.Names(), "launch")
}
