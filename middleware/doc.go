// Package middleware adapts the reqguard Engine to net/http.
//
// RateLimit wraps every inbound request in the sliding-window check and
// merges the RateLimit-* headers onto the response. Guard protects
// individual routes: it resolves the bearer credential to a session,
// enforces idempotency on mutating methods, and injects the AuthResult
// into the request context.
//
// Both adapters are plain func(http.Handler) http.Handler and compose
// with any router that speaks net/http.
package middleware
