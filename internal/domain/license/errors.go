package license

import (
	"errors"
	"fmt"

	"github.com/orkg/license-service/internal/domain/dispatch"
)

var (
	ErrInvalidURI      = errors.New("invalid uri")
	ErrUnsupportedURI  = errors.New("unsupported uri")
	ErrLicenseNotFound = errors.New("license not found")
)

// InvalidURIError reports input that is not an absolute http(s) URI.
type InvalidURIError struct {
	URI    string
	Reason string
}

func (e *InvalidURIError) Error() string {
	return fmt.Sprintf("invalid URI %q: %s", e.URI, e.Reason)
}

func (e *InvalidURIError) Is(target error) bool { return target == ErrInvalidURI }

// UnsupportedURIError reports a URI no provider can process.
type UnsupportedURIError struct {
	URI string
}

func (e *UnsupportedURIError) Error() string {
	return fmt.Sprintf("unsupported URI %q", e.URI)
}

func (e *UnsupportedURIError) Is(target error) bool {
	return target == ErrUnsupportedURI || target == dispatch.ErrNoCapableProvider
}

// NotFoundError reports that the responsible provider found no license.
type NotFoundError struct {
	URI        string
	ProviderID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("license for %q not found by provider %q", e.URI, e.ProviderID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrLicenseNotFound || target == dispatch.ErrNotFound
}
