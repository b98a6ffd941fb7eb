package profile

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned by Registry.Get for unknown profile ids.
var ErrNotFound = errors.New("profile: not found")

// Registry holds validated profiles by id. Registration validates and
// deep-copies; the stored profile is immutable from then on and every Get
// returns the same shared reference.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	rules    []Rule
}

// NewRegistry creates a registry with the default plausibility rules.
func NewRegistry() *Registry {
	return &Registry{
		profiles: make(map[string]*Profile),
		rules:    DefaultRules(),
	}
}

// AddRule appends a plausibility rule applied to subsequent registrations.
// Already-registered profiles are not re-checked.
func (r *Registry) AddRule(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
}

// Register validates and stores a profile. An invalid profile is rejected
// with a *ValidationError listing every failed rule; it is never coerced
// into a usable one. Registering an id twice is an error.
func (r *Registry) Register(p *Profile) error {
	if p == nil {
		return errors.New("profile: nil profile")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ok, reasons := p.ValidateWith(r.rules); !ok {
		return &ValidationError{ID: p.ID, Reasons: reasons}
	}
	if _, exists := r.profiles[p.ID]; exists {
		return fmt.Errorf("profile: %q already registered", p.ID)
	}
	r.profiles[p.ID] = p.Clone()
	return nil
}

// RegisterBuiltin registers every factory preset.
func (r *Registry) RegisterBuiltin() error {
	for _, p := range Builtin() {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the profile for id, or ErrNotFound.
func (r *Registry) Get(id string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// Remove deletes a profile. Contexts already bound to it keep their shared
// reference; removal only stops new lookups.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, id)
}

// List returns all registered ids in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}
