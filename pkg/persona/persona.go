// Package persona defines the assistant's language modes: per-mode system
// prompts that condition the language model, shipped as builtins and
// optionally overridden from YAML files.
package persona

import (
	"fmt"
	"sort"
	"sync"
)

// Persona is one assistant language mode.
type Persona struct {
	// Mode is the short code clients send in the `lang` field (e.g. "ru").
	Mode string `yaml:"mode" json:"mode"`
	// DisplayName is a human-readable label for introspection endpoints.
	DisplayName string `yaml:"display_name" json:"display_name"`
	// SystemPrompt conditions every reply in this mode.
	SystemPrompt string `yaml:"system_prompt" json:"-"`
}

// Set holds the configured personas and the default mode. Safe for
// concurrent use; Replace swaps the whole set on hot reload.
type Set struct {
	mu          sync.RWMutex
	personas    map[string]Persona
	defaultMode string
}

// NewSet creates a set from the given personas. defaultMode must be one of
// them.
func NewSet(defaultMode string, personas ...Persona) (*Set, error) {
	s := &Set{personas: make(map[string]Persona, len(personas)), defaultMode: defaultMode}
	for _, p := range personas {
		if p.Mode == "" {
			return nil, fmt.Errorf("persona with empty mode")
		}
		if p.SystemPrompt == "" {
			return nil, fmt.Errorf("persona %q: system_prompt is required", p.Mode)
		}
		s.personas[p.Mode] = p
	}
	if _, ok := s.personas[defaultMode]; !ok {
		return nil, fmt.Errorf("default mode %q not among configured personas", defaultMode)
	}
	return s, nil
}

// Get returns the persona for mode, falling back to the default mode when
// mode is empty or unknown.
func (s *Set) Get(mode string) Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.personas[mode]; ok {
		return p
	}
	return s.personas[s.defaultMode]
}

// Has reports whether mode is configured.
func (s *Set) Has(mode string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.personas[mode]
	return ok
}

// DefaultMode returns the fallback mode.
func (s *Set) DefaultMode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultMode
}

// All returns the configured personas sorted by mode.
func (s *Set) All() []Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Persona, 0, len(s.personas))
	for _, p := range s.personas {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mode < out[j].Mode })
	return out
}

// Replace swaps in a new persona map, keeping the old set when the new one
// would drop the default mode.
func (s *Set) Replace(personas map[string]Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := personas[s.defaultMode]; !ok {
		return fmt.Errorf("reload would drop default mode %q", s.defaultMode)
	}
	s.personas = personas
	return nil
}
