// Package server exposes the Verdict evaluation engine over HTTP.
//
// # Endpoints
//
// Client endpoints (API-key authenticated when keys are configured):
//
//   - POST /v1/evaluate      evaluate a conversation against a pack
//   - GET  /v1/packs         list registered policy packs
//   - GET  /v1/audits        list recent audit records (?limit=N)
//   - GET  /v1/audits/{id}   fetch one audit record with verification
//
// Operational endpoints (always unauthenticated):
//
//   - GET /healthz           liveness
//   - GET /readyz            readiness, 503 when any component check fails
//   - GET /metrics           Prometheus exposition (when metrics enabled)
//
// # Middleware
//
// Requests pass through, outermost first: panic recovery, request-id
// correlation, structured request logging, then per-route API-key
// authentication. Authentication accepts the X-API-Key header or an
// Authorization: Bearer token and compares keys in constant time.
//
// # Lifecycle
//
// Start blocks until the context is cancelled or SIGINT/SIGTERM arrives,
// then drains in-flight requests within the configured shutdown timeout.
// Handler exposes the assembled routes for tests and embedding.
package server
