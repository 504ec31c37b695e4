package memstore

import (
	"errors"
	"testing"

	"github.com/cognicore/horn/pkg/horn/internalerr"
	"github.com/cognicore/horn/pkg/horn/logic"
)

func TestFacts_DeclarationOrder(t *testing.T) {
	s := New()
	mustTell(t, s, logic.P("father", "pap", "a"))
	mustTell(t, s, logic.P("father", "pap", "b"))
	mustTell(t, s, logic.P("mother", "mum", "a"))

	facts := s.Facts("father")
	if len(facts) != 2 {
		t.Fatalf("expected 2 father facts, got %d", len(facts))
	}
	if facts[0].String() != "father(pap, a)" || facts[1].String() != "father(pap, b)" {
		t.Errorf("facts out of order: %v", facts)
	}
}

func TestRules_KeyedByHeadVerb(t *testing.T) {
	s := New()
	x, y := logic.S("x"), logic.S("y")
	mustTell(t, s, logic.If(logic.P("parent", x, y), logic.P("father", x, y)))
	mustTell(t, s, logic.If(logic.P("parent", x, y), logic.P("mother", x, y)))

	rules := s.Rules("parent")
	if len(rules) != 2 {
		t.Fatalf("expected 2 parent rules, got %d", len(rules))
	}
	if rules[1].Body.String() != "mother(?x, ?y)" {
		t.Errorf("second rule body = %v", rules[1].Body)
	}
	if len(s.Facts("parent")) != 0 {
		t.Error("rules must not be indexed as facts")
	}
}

func TestUnknownVerbIsEmpty(t *testing.T) {
	s := New()
	if s.Facts("nobody") != nil || s.Rules("nobody") != nil {
		t.Error("expected nil clause lists for an unknown verb")
	}
	if s.HasPredicate("nobody") {
		t.Error("HasPredicate should be false for an unknown verb")
	}
}

func TestTell_RejectsComposites(t *testing.T) {
	s := New()
	bad := []logic.Sentence{
		logic.And{L: logic.P("a"), R: logic.P("b")},
		logic.Or{L: logic.P("a"), R: logic.P("b")},
		logic.Not{S: logic.P("a")},
		logic.Equals("a", "a"),
		logic.Differs("a", "b"),
		nil,
	}
	for _, sen := range bad {
		if err := s.Tell(sen); !errors.Is(err, internalerr.ErrUnsupportedSentence) {
			t.Errorf("Tell(%v) error = %v, want ErrUnsupportedSentence", sen, err)
		}
	}
	if f, r := s.Size(); f != 0 || r != 0 {
		t.Errorf("rejected sentences were stored: %d facts, %d rules", f, r)
	}
}

func TestTell_RejectsQueryVariables(t *testing.T) {
	s := New()
	err := s.Tell(logic.P("father", logic.V("X"), "a"))
	if !errors.Is(err, internalerr.ErrUnstandardized) {
		t.Errorf("expected ErrUnstandardized, got %v", err)
	}

	err = s.Tell(logic.If(logic.P("p", logic.S("x")), logic.P("q", logic.Cons(logic.V("Y"), logic.Nil))))
	if !errors.Is(err, internalerr.ErrUnstandardized) {
		t.Errorf("expected ErrUnstandardized for a variable in a rule body, got %v", err)
	}
}

func TestPredicatesAndSize(t *testing.T) {
	s := New()
	mustTell(t, s, logic.P("zeta", 1))
	mustTell(t, s, logic.P("alpha", 1))
	mustTell(t, s, logic.If(logic.P("alpha", logic.S("x")), logic.P("zeta", logic.S("x"))))

	preds := s.Predicates()
	if len(preds) != 2 || preds[0] != "alpha" || preds[1] != "zeta" {
		t.Errorf("Predicates() = %v, want [alpha zeta]", preds)
	}
	if f, r := s.Size(); f != 2 || r != 1 {
		t.Errorf("Size() = (%d, %d), want (2, 1)", f, r)
	}
}

func TestFacts_SnapshotIsCapped(t *testing.T) {
	s := New()
	mustTell(t, s, logic.P("n", 1))
	snap := s.Facts("n")
	mustTell(t, s, logic.P("n", 2))

	if len(snap) != 1 {
		t.Fatalf("snapshot grew to %d", len(snap))
	}
	if cap(snap) != len(snap) {
		t.Errorf("snapshot capacity %d exceeds length %d", cap(snap), len(snap))
	}
}

func mustTell(t *testing.T, s *Store, sen logic.Sentence) {
	t.Helper()
	if err := s.Tell(sen); err != nil {
		t.Fatalf("Tell(%v): %v", sen, err)
	}
}
