package datastore

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/webappsteps/stepsub/pkg/substitute"
)

// Scope is the lifetime of a stored value.
type Scope int

const (
	// Suite values live for the whole run.
	Suite Scope = iota
	// Spec values are cleared when a specification finishes.
	Spec
	// Scenario values are cleared when a scenario finishes.
	Scenario
)

var scopeNames = [...]string{"suite", "spec", "scenario"}

// String returns the lower-case scope name.
func (s Scope) String() string {
	if s < Suite || s > Scenario {
		return fmt.Sprintf("scope(%d)", int(s))
	}
	return scopeNames[s]
}

// ParseScope parses a scope name case-insensitively.
func ParseScope(name string) (Scope, error) {
	for i, n := range scopeNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Scope(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScope, name)
}

// Common errors for the data store.
var (
	ErrUnknownScope = errors.New("unknown data store scope")
	ErrNestedValue  = errors.New("nested values are not supported")
	ErrEmptyKey     = errors.New("key must not be empty")
)

// Substituter resolves templates against the two variable layers.
type Substituter interface {
	Substitute(template string, env, data substitute.Vars) (string, error)
}

// Store is a thread-safe in-memory data store with suite, spec and
// scenario scopes.
type Store struct {
	mu     sync.RWMutex
	scopes [3]map[string]string
}

// New creates an empty Store.
func New() *Store {
	s := &Store{}
	for i := range s.scopes {
		s.scopes[i] = make(map[string]string)
	}
	return s
}

func (s *Store) scope(scope Scope) (map[string]string, error) {
	if scope < Suite || scope > Scenario {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScope, scope)
	}
	return s.scopes[scope], nil
}

// Set stores or updates a value.
func (s *Store) Set(scope Scope, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.scope(scope)
	if err != nil {
		return err
	}
	m[key] = value
	return nil
}

// Get retrieves a value from one scope.
func (s *Store) Get(scope Scope, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.scope(scope)
	if err != nil {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}

// Delete removes a key. Returns true if deleted, false if not found.
func (s *Store) Delete(scope Scope, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.scope(scope)
	if err != nil {
		return false
	}
	if _, exists := m[key]; exists {
		delete(m, key)
		return true
	}
	return false
}

// Clear removes every value of a scope.
func (s *Store) Clear(scope Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.scope(scope); err == nil {
		s.scopes[scope] = make(map[string]string)
	}
}

// Count returns the number of values in a scope.
func (s *Store) Count(scope Scope) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.scope(scope)
	if err != nil {
		return 0
	}
	return len(m)
}

// Snapshot returns the data layer: suite values, overridden by spec values,
// overridden by scenario values. The result is a copy.
func (s *Store) Snapshot() substitute.Vars {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return substitute.Merge(
		substitute.Vars(s.scopes[Suite]),
		substitute.Vars(s.scopes[Spec]),
		substitute.Vars(s.scopes[Scenario]),
	)
}

// SavePlaceholder substitutes name and value against env and the current
// snapshot, then stores the result in the scenario scope.
func (s *Store) SavePlaceholder(sub Substituter, env substitute.Vars, name, value string) error {
	data := s.Snapshot()

	resolvedName, err := sub.Substitute(name, env, data)
	if err != nil {
		return fmt.Errorf("placeholder name: %w", err)
	}
	resolvedValue, err := sub.Substitute(value, env, data)
	if err != nil {
		return fmt.Errorf("placeholder %s: %w", resolvedName, err)
	}
	return s.Set(Scenario, resolvedName, resolvedValue)
}
