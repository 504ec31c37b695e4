package store

import (
	"fmt"

	"github.com/cognicore/horn/pkg/horn/internalerr"
	"github.com/cognicore/horn/pkg/horn/logic"
)

// Store holds facts and rules indexed by predicate verb. Clauses come back
// in the order they were told.
type Store interface {
	// Tell adds a fact (a Pred) or a rule. Any other sentence is rejected
	// with internalerr.ErrUnsupportedSentence.
	Tell(s logic.Sentence) error

	// Facts returns the facts for verb, or nil if there are none.
	Facts(verb string) []logic.Pred

	// Rules returns the rules whose head has verb, or nil if there are none.
	Rules(verb string) []logic.Rule

	// HasPredicate reports whether any fact or rule uses verb.
	HasPredicate(verb string) bool

	// Predicates lists every known verb, sorted.
	Predicates() []string

	// Size is the number of stored facts and rules.
	Size() (facts, rules int)
}

// Validate checks that s may be told: it must be a Pred or a Rule and must
// not mention a caller-written variable. Stored clauses only use schematic
// variables.
func Validate(s logic.Sentence) error {
	switch x := s.(type) {
	case logic.Pred:
		return checkTerms(x, x.Args)
	case logic.Rule:
		if x.Head.Verb == "" {
			return fmt.Errorf("%w: rule without head verb", internalerr.ErrUnsupportedSentence)
		}
		if err := checkTerms(x, x.Head.Args); err != nil {
			return err
		}
		if x.Body != nil {
			return checkSentence(x, x.Body)
		}
		return nil
	case nil:
		return fmt.Errorf("%w: nil sentence", internalerr.ErrUnsupportedSentence)
	default:
		return fmt.Errorf("%w: only facts and rules can be told, got %v", internalerr.ErrUnsupportedSentence, s)
	}
}

func checkSentence(clause logic.Sentence, s logic.Sentence) error {
	switch x := s.(type) {
	case logic.Pred:
		return checkTerms(clause, x.Args)
	case logic.Eq:
		return checkTerms(clause, []logic.Term{x.L, x.R})
	case logic.NotEq:
		return checkTerms(clause, []logic.Term{x.L, x.R})
	case logic.And:
		if err := checkSentence(clause, x.L); err != nil {
			return err
		}
		return checkSentence(clause, x.R)
	case logic.Or:
		if err := checkSentence(clause, x.L); err != nil {
			return err
		}
		return checkSentence(clause, x.R)
	case logic.Not:
		return checkSentence(clause, x.S)
	case logic.Rule:
		return fmt.Errorf("%w: nested rule in %v", internalerr.ErrUnsupportedSentence, clause)
	default:
		return fmt.Errorf("%w: %T in %v", internalerr.ErrUnsupportedSentence, s, clause)
	}
}

func checkTerms(clause logic.Sentence, ts []logic.Term) error {
	for _, t := range ts {
		switch x := t.(type) {
		case logic.Var:
			return fmt.Errorf("%w: variable %v in stored clause %v", internalerr.ErrUnstandardized, x, clause)
		case logic.Compound:
			if err := checkTerms(clause, x.Args); err != nil {
				return err
			}
		case logic.Func:
			if err := checkTerms(clause, x.Args); err != nil {
				return err
			}
		case nil:
			return fmt.Errorf("%w: nil term in clause", internalerr.ErrInvalidInput)
		}
	}
	return nil
}
