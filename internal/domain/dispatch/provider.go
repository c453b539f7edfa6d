package dispatch

import "context"

// Provider handles a subset of inputs and resolves them to a value.
//
// CanProcess and Resolve are separate calls. Implementations must answer
// CanProcess deterministically for a given input and must be safe for
// concurrent use.
type Provider[I, V any] interface {
	// ID is the stable identity of the provider, unique within a registry.
	ID() string
	// Description is a human-readable summary shown in listings.
	Description() string
	// CanProcess reports whether the provider claims the input.
	CanProcess(in I) bool
	// Resolve returns (value, true, nil) when found and (zero, false, nil)
	// when the provider has no answer for the input.
	Resolve(ctx context.Context, in I) (V, bool, error)
}

// Descriptor is the listing view of a provider.
type Descriptor struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Result pairs the winning provider's identity with the resolved value.
// On a provider failure only ProviderID is set.
type Result[V any] struct {
	ProviderID string
	Value      V
}

// Func adapts plain functions to the Provider interface.
type Func[I, V any] struct {
	Name    string
	Summary string
	Match   func(in I) bool
	Lookup  func(ctx context.Context, in I) (V, bool, error)
}

func (f Func[I, V]) ID() string          { return f.Name }
func (f Func[I, V]) Description() string { return f.Summary }

func (f Func[I, V]) CanProcess(in I) bool {
	if f.Match == nil {
		return false
	}
	return f.Match(in)
}

func (f Func[I, V]) Resolve(ctx context.Context, in I) (V, bool, error) {
	if f.Lookup == nil {
		var zero V
		return zero, false, nil
	}
	return f.Lookup(ctx, in)
}
