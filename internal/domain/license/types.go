package license

import (
	"net/url"

	"github.com/orkg/license-service/internal/domain/dispatch"
)

// Provider determines the license of the resources behind a URI.
type Provider = dispatch.Provider[*url.URL, string]

// Registry is the ordered provider chain.
type Registry = dispatch.Registry[*url.URL, string]

// Information is the answer returned to clients.
type Information struct {
	ProviderID string `json:"provider_id"`
	License    string `json:"license"`
}

// NewRegistry builds the provider chain in the given order.
func NewRegistry(providers ...Provider) (*Registry, error) {
	return dispatch.NewRegistry(providers...)
}
