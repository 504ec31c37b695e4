package syntax

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/horn/pkg/horn/builtin"
	"github.com/cognicore/horn/pkg/horn/logic"
)

func TestFormatRoundTrip(t *testing.T) {
	src := `
father(pap, a).
sibling(X, Y) :- father(Z, X), father(Z, Y), X \= Y.
factorial(N, F) :- N > 0, factorial(N - 1, G), F is N * G.
append([H|T], L, [H|R]) :- append(T, L, R).
flies(X) :- bird(X), \+ penguin(X) ; plane(X).
label(X, "two words", 2.5, -3, true).
`
	clauses, err := ParseProgram(src)
	require.NoError(t, err)

	for _, c := range clauses {
		text := Format(c)
		again, err := ParseProgram(text + ".")
		require.NoError(t, err, text)
		require.Len(t, again, 1)
		assert.Equal(t, c.String(), again[0].String(), text)
	}
}

func TestFormat(t *testing.T) {
	x := logic.S("x")
	tests := []struct {
		s    logic.Sentence
		want string
	}{
		{logic.P("p", "a", "B", "true", 2.0, nil), `p(a, "B", "true", 2.0, null)`},
		{logic.If(logic.P("q", x), builtin.Ge(x, 1), logic.Not{S: logic.P("r", x)}), `q(_x) :- _x >= 1, \+ (r(_x))`},
		{logic.P("l", logic.List(1, 2), logic.Cons(1, x), logic.Comp("z")), "l([1, 2], [1 | _x], z())"},
		{logic.Equals(x, logic.Fn(builtin.Max, 1, logic.Fn(builtin.Pow, 2, 3))), "_x = max(1, (2 ** 3))"},
		{logic.Disj(logic.P("a"), logic.Conj(logic.P("b"), logic.P("c"))), "(a; b, c)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.s))
	}
}

func TestFormatAnonymousVariable(t *testing.T) {
	clauses, err := ParseProgram("first([X|_], X).")
	require.NoError(t, err)
	assert.Equal(t, "first([X | _], X)", Format(clauses[0]))
}

func TestWriteProgram(t *testing.T) {
	var buf bytes.Buffer
	err := WriteProgram(&buf, []logic.Sentence{
		logic.P("edge", "a", "b"),
		logic.If(logic.P("path", logic.S("X"), logic.S("Y")), logic.P("edge", logic.S("X"), logic.S("Y"))),
	})
	require.NoError(t, err)
	assert.Equal(t, "edge(a, b).\npath(X, Y) :- edge(X, Y).\n", buf.String())

	back, err := ParseProgram(buf.String())
	require.NoError(t, err)
	assert.Len(t, back, 2)
}
