package dispatch

import "context"

// Resolver performs first-match dispatch over a Registry.
type Resolver[I, V any] struct {
	registry *Registry[I, V]
}

// NewResolver creates a resolver over the registry. A nil registry behaves
// like an empty one.
func NewResolver[I, V any](registry *Registry[I, V]) *Resolver[I, V] {
	if registry == nil {
		registry = &Registry[I, V]{}
	}
	return &Resolver[I, V]{registry: registry}
}

// Registry returns the registry the resolver dispatches over.
func (r *Resolver[I, V]) Registry() *Registry[I, V] {
	return r.registry
}

// match returns the first provider, in registration order, that accepts in.
func (r *Resolver[I, V]) match(in I) (Provider[I, V], bool) {
	for _, p := range r.registry.providers {
		if p.CanProcess(in) {
			return p, true
		}
	}
	return nil, false
}

// Resolve hands in to the first capable provider and returns its value.
//
// The first capable provider is authoritative. When it has no value the
// result is a *NotFoundError, even if a later provider could answer.
// Provider errors are returned unchanged; the Result then still names the
// provider that failed.
func (r *Resolver[I, V]) Resolve(ctx context.Context, in I) (Result[V], error) {
	p, ok := r.match(in)
	if !ok {
		return Result[V]{}, &NoCapableProviderError{Input: in}
	}

	value, found, err := p.Resolve(ctx, in)
	if err != nil {
		return Result[V]{ProviderID: p.ID()}, err
	}
	if !found {
		return Result[V]{}, &NotFoundError{ProviderID: p.ID(), Input: in}
	}

	return Result[V]{ProviderID: p.ID(), Value: value}, nil
}
