// Package middleware provides the HTTP middleware for the license API.
//
// Middleware stack includes:
//   - Recovery: Panic recovery with a JSON error body
//   - RequestID: ULID request IDs in X-Request-ID
//   - AccessLog: One zap line per request, level by status
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting with idle cleanup
//
// Example Usage:
//
//	router.Use(middleware.Recovery(logger), middleware.RequestID())
//	router.Use(middleware.CORS(middleware.CORSFromConfig(cfg.CORS)))
//	router.Use(middleware.RateLimit(middleware.RateLimitFromConfig(cfg.RateLimit)))
package middleware
