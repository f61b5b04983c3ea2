// Package registry holds named backend factories for each assistant
// capability. Backends self-register in their init functions; binaries pick
// them up with blank imports.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory creates an instance of T from a flat key/value config map.
type Factory[T any] func(config map[string]string) (T, error)

// Registry maps backend names to factories for one capability. The zero
// value is not usable; construct with New.
type Registry[T any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]Factory[T])}
}

// Register adds a named factory. Registering the same name again replaces
// the earlier factory, which keeps test doubles cheap to install. Blank
// names are ignored rather than becoming unreachable entries.
func (r *Registry[T]) Register(name string, factory Factory[T]) {
	if name == "" || factory == nil {
		return
	}
	r.mu.Lock()
	r.factories[name] = factory
	r.mu.Unlock()
}

// Create instantiates the named backend. An unknown name is a config error,
// so the message lists what is actually registered.
func (r *Registry[T]) Create(name string, config map[string]string) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, fmt.Errorf("no %q backend registered (available: %s)",
			name, strings.Join(r.List(), ", "))
	}
	return factory(config)
}

// Has reports whether a backend name is registered.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// List returns the registered backend names, sorted for stable output.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}
