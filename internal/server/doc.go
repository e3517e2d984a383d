// Package server provides HTTP routing, middleware, and the JSON response envelope for the catalog API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [MuxRouter] implementation uses gorilla/mux internally. Unknown paths and unsupported methods
// answer with the same JSON error envelope as the handlers.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface and describe their endpoints as a list of [Route] values.
// A route with a Permission is wrapped by [RequirePermission] before any middleware, so the handler only runs
// for a verified credential holding that permission. The verified [auth.Claims] are available from the request
// context through [auth.ClaimsFromContext].
//
// # Responses
//
// Every body is a JSON object with a "success" key. Failures go through [WriteError], the single place where
// errors are mapped to status codes:
//
//	*auth.Error                         its own status, its description as the message
//	shared.ErrMissingField, ErrInvalid* 400 bad request
//	shared.ErrNotFound                  404 resource not found
//	anything else                       422 unprocessable (detail is logged, never returned)
//
// # Middleware
//
//   - [RequestLogger] : request ids (X-Request-ID) and one log line per request
//   - [Recoverer] : converts panics into a 500 envelope
//   - [Metrics] : Prometheus request counters and latency histograms, exposed by [Metrics.Handler]
//   - [RateLimiter] : per-client token buckets answering 429 when exhausted
package server
