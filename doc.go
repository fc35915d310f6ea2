// Package reqguard provides a Redis-backed request-policy engine for web
// backends: a sliding-window rate limiter and a bearer-token session guard
// with per-request idempotency.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. No in-process locks serialize access to a limiter or
// session key; correctness under concurrency relies on the atomicity of
// single Redis commands and on the documented approximation bounds of the
// sliding-window blend.
//
// # Architecture boundaries
//
// reqguard is the public surface. It exposes [Engine], [Builder], [Config],
// the audit sinks, and value types (Verdict, AuthResult, MetricsSnapshot).
// The windowing arithmetic and the cache-interaction protocol live under
// internal/ and are never exported. HTTP translation lives in the
// middleware subpackage; credential resolution in identity; the session
// store in session.
//
// # What this package must NOT do
//
//   - Implement the identity provider's authentication protocol beyond
//     the token exchange in the identity subpackage.
//   - Expose Redis clients or encoding details in its public API.
//   - Roll back a counter increment when a request is later cancelled;
//     rate accounting is best-effort, not transactional with handler
//     completion.
package reqguard
