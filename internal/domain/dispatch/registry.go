package dispatch

import (
	"fmt"
	"reflect"
	"strings"
)

// Registry is an ordered, read-only set of providers.
type Registry[I, V any] struct {
	providers []Provider[I, V]
}

// NewRegistry builds a registry in the given order. Nil providers, blank
// IDs and duplicate IDs are rejected.
func NewRegistry[I, V any](providers ...Provider[I, V]) (*Registry[I, V], error) {
	seen := make(map[string]int, len(providers))
	list := make([]Provider[I, V], 0, len(providers))

	for i, p := range providers {
		if isNil(p) {
			return nil, fmt.Errorf("%w: provider at position %d is nil", ErrInvalidProvider, i)
		}
		id := p.ID()
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: provider at position %d has an empty id", ErrInvalidProvider, i)
		}
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateProvider, id, prev, i)
		}
		seen[id] = i
		list = append(list, p)
	}

	return &Registry[I, V]{providers: list}, nil
}

// isNil also catches typed nil pointers stored in the interface.
func isNil(p any) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// MustRegistry is NewRegistry for static wiring; it panics on error.
func MustRegistry[I, V any](providers ...Provider[I, V]) *Registry[I, V] {
	r, err := NewRegistry(providers...)
	if err != nil {
		panic(err)
	}
	return r
}

// Providers returns a copy of the providers in registration order.
func (r *Registry[I, V]) Providers() []Provider[I, V] {
	out := make([]Provider[I, V], len(r.providers))
	copy(out, r.providers)
	return out
}

// Len returns the number of registered providers.
func (r *Registry[I, V]) Len() int {
	return len(r.providers)
}

// IDs returns provider IDs in registration order.
func (r *Registry[I, V]) IDs() []string {
	ids := make([]string, len(r.providers))
	for i, p := range r.providers {
		ids[i] = p.ID()
	}
	return ids
}

// Descriptors returns the listing view in registration order.
func (r *Registry[I, V]) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.providers))
	for i, p := range r.providers {
		out[i] = Descriptor{ID: p.ID(), Description: p.Description()}
	}
	return out
}

// Get looks a provider up by ID.
func (r *Registry[I, V]) Get(id string) (Provider[I, V], bool) {
	for _, p := range r.providers {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}
