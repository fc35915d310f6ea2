// Package identity resolves user credentials to opaque bearer tokens.
//
// Authentication itself is delegated to an external identity provider;
// this package only speaks the provider's token endpoint and hands the
// issued token back to the engine, which owns the session lifecycle.
// The Resolver interface has two concrete variants selected at startup:
// Auth0Resolver for the real provider flow and MockResolver for tests
// and local development.
package identity
