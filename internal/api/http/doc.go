// Package http exposes the license service over a Gin router.
//
// Routes:
//   - GET  /                        service banner
//   - GET  /health                  provider count, request totals, cache stats
//   - GET  /api/licenses?uri=...    determine the license of a resource
//   - POST /api/licenses            same, with {"uri": "..."} as body
//   - GET  /api/licenses/providers  provider chain in dispatch order
//   - DELETE /api/licenses/cache    drop memoised provider answers
//
// Errors are JSON objects with error, status, path and timestamp fields.
// Invalid or unsupported URIs give 400, a provider that found nothing gives
// 404, an open circuit gives 503 and any other provider failure gives 502.
package http
