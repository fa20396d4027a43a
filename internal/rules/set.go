package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned for an unknown rule id.
var ErrNotFound = errors.New("rule not found")

// Store persists the ordered rule collection.
type Store interface {
	LoadRules() ([]Rule, error)
	// SaveRules atomically replaces the stored collection.
	SaveRules(rules []Rule) error
}

// Set is the in-memory rule collection shared by the control surface and
// the capture loop. Every mutation is persisted before it becomes visible.
//
// Thread-safe for concurrent use.
type Set struct {
	mu    sync.RWMutex
	rules []Rule
	store Store
}

// NewSet loads the collection from store.
func NewSet(store Store) (*Set, error) {
	rs, err := store.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return &Set{rules: rs, store: store}, nil
}

// FindFirstMatch matches pkt against the current collection under the read
// lock.
func (s *Set) FindFirstMatch(pkt Fields) (Rule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FindFirstMatch(pkt, s.rules)
}

// List returns the rules in priority order.
func (s *Set) List() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rules)
}

// Len returns the number of rules.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// Get returns the rule with the given id.
func (s *Set) Get(id string) (Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return Rule{}, ErrNotFound
	}
	return s.rules[i], nil
}

// Create validates r, assigns it a fresh id and appends it.
func (s *Set) Create(r Rule) (Rule, error) {
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	r.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(slices.Clone(s.rules), r)
	if err := s.commit(next); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// Update replaces the rule with the given id, keeping its id and position.
func (s *Set) Update(id string, r Rule) (Rule, error) {
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	r.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return Rule{}, ErrNotFound
	}
	next := slices.Clone(s.rules)
	next[i] = r
	if err := s.commit(next); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// Delete removes the rule with the given id.
func (s *Set) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	next := slices.Delete(slices.Clone(s.rules), i, i+1)
	return s.commit(next)
}

// Reorder sets the priority order. ids must name every rule exactly once.
func (s *Set) Reorder(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(ids) != len(s.rules) {
		return &ValidationError{Field: "order", Reason: fmt.Sprintf("expected %d ids, got %d", len(s.rules), len(ids))}
	}
	next := make([]Rule, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return &ValidationError{Field: "order", Reason: fmt.Sprintf("duplicate id %q", id)}
		}
		seen[id] = struct{}{}
		i := s.index(id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		next = append(next, s.rules[i])
	}
	return s.commit(next)
}

// Import replaces the whole collection with the JSON array in data. Every
// entry is validated before anything is stored; on any error the current
// collection is left untouched. Supplied ids are kept when unique, other
// entries get a fresh id.
func (s *Set) Import(data []byte) ([]Rule, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Field: "rules", Reason: "expected a JSON array of rules: " + err.Error()}
	}
	next := make([]Rule, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, msg := range raw {
		var r Rule
		if err := json.Unmarshal(msg, &r); err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("rules[%d]", i), Reason: err.Error()}
		}
		if err := r.Validate(); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Field = fmt.Sprintf("rules[%d].%s", i, ve.Field)
			}
			return nil, err
		}
		if _, dup := seen[r.ID]; r.ID == "" || dup {
			r.ID = uuid.NewString()
		}
		seen[r.ID] = struct{}{}
		next = append(next, r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commit(next); err != nil {
		return nil, err
	}
	return slices.Clone(next), nil
}

// Export returns the collection as an indented JSON array accepted by
// Import.
func (s *Set) Export() ([]byte, error) {
	rs := s.List()
	if rs == nil {
		rs = []Rule{}
	}
	return json.MarshalIndent(rs, "", "  ")
}

// commit persists next and swaps it in. Callers hold the write lock.
func (s *Set) commit(next []Rule) error {
	if err := s.store.SaveRules(next); err != nil {
		return fmt.Errorf("save rules: %w", err)
	}
	s.rules = next
	return nil
}

func (s *Set) index(id string) int {
	return slices.IndexFunc(s.rules, func(r Rule) bool { return r.ID == id })
}
