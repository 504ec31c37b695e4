package memstore

import (
	"sort"
	"sync"

	"github.com/cognicore/horn/pkg/horn/logic"
	"github.com/cognicore/horn/pkg/horn/store"
)

// Store is the in-memory implementation of store.Store. Clause lists are
// append-only; the slices handed out are capped so later tells never show
// through to a resolution already in progress.
type Store struct {
	mu     sync.RWMutex
	facts  map[string][]logic.Pred
	rules  map[string][]logic.Rule
	nFacts int
	nRules int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		facts: make(map[string][]logic.Pred),
		rules: make(map[string][]logic.Rule),
	}
}

// Tell implements store.Store.
func (s *Store) Tell(sen logic.Sentence) error {
	if err := store.Validate(sen); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch x := sen.(type) {
	case logic.Pred:
		s.facts[x.Key()] = append(s.facts[x.Key()], x)
		s.nFacts++
	case logic.Rule:
		s.rules[x.Key()] = append(s.rules[x.Key()], x)
		s.nRules++
	}
	return nil
}

// Facts implements store.Store.
func (s *Store) Facts(verb string) []logic.Pred {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fs := s.facts[verb]
	return fs[:len(fs):len(fs)]
}

// Rules implements store.Store.
func (s *Store) Rules(verb string) []logic.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rs := s.rules[verb]
	return rs[:len(rs):len(rs)]
}

// HasPredicate implements store.Store.
func (s *Store) HasPredicate(verb string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, f := s.facts[verb]
	_, r := s.rules[verb]
	return f || r
}

// Predicates implements store.Store.
func (s *Store) Predicates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.facts)+len(s.rules))
	for v := range s.facts {
		seen[v] = struct{}{}
	}
	for v := range s.rules {
		seen[v] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Size implements store.Store.
func (s *Store) Size() (facts, rules int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFacts, s.nRules
}

var _ store.Store = (*Store)(nil)
