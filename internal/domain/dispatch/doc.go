// Package dispatch implements first-match provider dispatch.
//
// A Registry holds an ordered, immutable list of providers. A Resolver walks
// that list and hands the input to the first provider whose capability check
// accepts it. The chosen provider is authoritative: if it cannot produce a
// value the resolution fails, and later providers are never consulted.
//
// Outcomes:
//   - Result: the chosen provider produced a value
//   - ErrNotFound: the chosen provider produced no value
//   - ErrNoCapableProvider: no provider accepted the input
//   - any other error: returned by the chosen provider, passed through as is
//
// Example Usage:
//
//	registry, err := dispatch.NewRegistry[*url.URL, string](github, static)
//	resolver := dispatch.NewResolver(registry)
//	result, err := resolver.Resolve(ctx, uri)
package dispatch
