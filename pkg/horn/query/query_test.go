package query

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/cognicore/horn/pkg/horn/internalerr"
	"github.com/cognicore/horn/pkg/horn/logic"
	"github.com/cognicore/horn/pkg/horn/metrics"
	"github.com/cognicore/horn/pkg/horn/store/memstore"
	"github.com/cognicore/horn/pkg/horn/unify"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func familyStore(t *testing.T) *memstore.Store {
	t.Helper()
	x, y, z := logic.S("x"), logic.S("y"), logic.S("z")
	s := memstore.New()
	for _, c := range []logic.Sentence{
		logic.P("father", "pap", "a"),
		logic.P("father", "pap", "b"),
		logic.If(logic.P("sibling", x, y),
			logic.P("father", z, x),
			logic.P("father", z, y),
			logic.Differs(x, y)),
	} {
		require.NoError(t, s.Tell(c))
	}
	return s
}

func TestRunDropsInternalVariables(t *testing.T) {
	s := familyStore(t)
	answers, err := Collect(Run(context.Background(), s, logic.P("sibling", logic.V("X"), logic.V("Y")), Options{}), 0)
	require.NoError(t, err)
	require.Len(t, answers, 2)

	assert.Equal(t, "X = a, Y = b", answers[0].String())
	assert.Equal(t, "X = b, Y = a", answers[1].String())
	for _, b := range answers {
		assert.Equal(t, []string{"X", "Y"}, b.Names())
	}
}

func TestRunRestartsNamingPerQuery(t *testing.T) {
	s := familyStore(t)
	var firstRun, secondRun []string
	for _, dst := range []*[]string{&firstRun, &secondRun} {
		r := Run(context.Background(), s, logic.P("sibling", "a", logic.V("Y")), Options{})
		for b, err := range r {
			require.NoError(t, err)
			*dst = append(*dst, b.String())
		}
	}
	assert.Equal(t, firstRun, secondRun)
	assert.Equal(t, []string{"Y = b"}, firstRun)
}

func TestRunUnknownPredicate(t *testing.T) {
	s := familyStore(t)
	_, err := Collect(Run(context.Background(), s, logic.P("uncle", logic.V("X")), Options{}), 0)
	assert.ErrorIs(t, err, internalerr.ErrUnknownPredicate)

	// Unknown verbs nested in a body are simply unprovable.
	goal := logic.Not{S: logic.P("uncle", "a")}
	answers, err := Collect(Run(context.Background(), s, goal, Options{}), 0)
	require.NoError(t, err)
	assert.Len(t, answers, 1)
}

func TestRunYieldsErrorOnce(t *testing.T) {
	s := memstore.New()
	require.NoError(t, s.Tell(logic.P("p", 1, 2)))

	var errs []error
	for _, err := range Run(context.Background(), s, logic.P("p", logic.V("X")), Options{}) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], internalerr.ErrArityMismatch))
}

func TestCollectLimit(t *testing.T) {
	s := memstore.New()
	n := logic.S("n")
	require.NoError(t, s.Tell(logic.P("nat", "z")))
	require.NoError(t, s.Tell(logic.If(logic.P("nat", logic.Comp("s", n)), logic.P("nat", n))))

	answers, err := Collect(Run(context.Background(), s, logic.P("nat", logic.V("N")), Options{}), 4)
	require.NoError(t, err)
	require.Len(t, answers, 4)
	last, _ := answers[3].Get("N")
	assert.Equal(t, "s(s(s(z)))", last.String())
}

func TestAnonymousVariablesHidden(t *testing.T) {
	s := familyStore(t)
	answers, err := Collect(Run(context.Background(), s, logic.P("father", logic.V("_1"), logic.V("C")), Options{}), 0)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, []string{"C"}, answers[0].Names())
}

func TestEmptyBindingsPrintTrue(t *testing.T) {
	s := familyStore(t)
	answers, err := Collect(Run(context.Background(), s, logic.P("father", "pap", "a"), Options{}), 0)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "true", answers[0].String())
}

func TestRunCountsMetrics(t *testing.T) {
	s := familyStore(t)
	m := metrics.New(nil)
	_, err := Collect(Run(context.Background(), s, logic.P("sibling", logic.V("X"), logic.V("Y")), Options{Metrics: m}), 0)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Solutions))
	assert.Greater(t, testutil.ToFloat64(m.Unifications), 2.0)
}

func TestCursor(t *testing.T) {
	s := familyStore(t)
	c := NewCursor(Run(context.Background(), s, logic.P("father", "pap", logic.V("C")), Options{}))
	defer c.Close()

	b, ok := c.Next()
	require.True(t, ok)
	v, _ := b.Get("C")
	assert.Equal(t, "a", v.String())

	b, ok = c.Next()
	require.True(t, ok)
	v, _ = b.Get("C")
	assert.Equal(t, "b", v.String())

	_, ok = c.Next()
	assert.False(t, ok)
	assert.NoError(t, c.Err())
}

func TestCursorAbandonedInfiniteSearch(t *testing.T) {
	s := memstore.New()
	x := logic.S("x")
	require.NoError(t, s.Tell(logic.If(logic.P("loop", x), logic.P("loop", x))))
	require.NoError(t, s.Tell(logic.P("loop", 1)))

	c := NewCursor(Run(context.Background(), s, logic.P("loop", logic.V("X")), Options{}))
	for i := 0; i < 5; i++ {
		_, ok := c.Next()
		require.True(t, ok)
	}
	c.Close()
	c.Close()

	_, ok := c.Next()
	assert.False(t, ok)
}

func TestCursorReportsError(t *testing.T) {
	s := memstore.New()
	c := NewCursor(Run(context.Background(), s, logic.P("ghost"), Options{}))
	defer c.Close()

	_, ok := c.Next()
	assert.False(t, ok)
	assert.ErrorIs(t, c.Err(), internalerr.ErrUnknownPredicate)
}

func TestVisible(t *testing.T) {
	u := unify.Subst{}.
		Extend(logic.V("X"), logic.C(1)).
		Extend(logic.Var{Name: "x", Gen: 2}, logic.C(1)).
		Extend(logic.V("_"), logic.C(9))
	b := Visible(u)
	assert.Equal(t, []string{"X"}, b.Names())
}

func TestIDSourceIsMonotonic(t *testing.T) {
	ids := NewIDSource()
	prev := ids.New()
	for i := 0; i < 100; i++ {
		next := ids.New()
		require.Greater(t, next, prev)
		prev = next
	}
}
