package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCapableProvider is matched when no provider accepts the input.
	ErrNoCapableProvider = errors.New("no capable provider")
	// ErrNotFound is matched when the capable provider has no value.
	ErrNotFound = errors.New("resolution not found")

	ErrInvalidProvider   = errors.New("invalid provider")
	ErrDuplicateProvider = errors.New("duplicate provider id")
)

// NoCapableProviderError carries the input nobody claimed.
type NoCapableProviderError struct {
	Input any
}

func (e *NoCapableProviderError) Error() string {
	return fmt.Sprintf("no capable provider for %v", e.Input)
}

func (e *NoCapableProviderError) Is(target error) bool {
	return target == ErrNoCapableProvider
}

// NotFoundError carries the input and the provider that claimed it.
type NotFoundError struct {
	ProviderID string
	Input      any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("provider %q found no result for %v", e.ProviderID, e.Input)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
