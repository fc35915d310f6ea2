package identity

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials is returned when the provider rejects the
	// email/password pair.
	ErrInvalidCredentials = errors.New("wrong email or password")
	// ErrClientCredentials is returned when the provider rejects our own
	// client id or secret.
	ErrClientCredentials = errors.New("invalid client id or secret")
	// ErrProviderUnavailable is returned for transport failures and
	// unexpected provider responses.
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// Token is an issued credential. Value is the opaque bearer token used
// as the session key. Subject and ExpiresAt are advisory, surfaced from
// the token's claims when they can be read; session lifetime is governed
// by the cache TTL, not by ExpiresAt.
type Token struct {
	Value     string
	Subject   string
	ExpiresAt time.Time
}

// Resolver turns a credential pair into an issued Token or fails.
// Implementations must be safe for concurrent use.
type Resolver interface {
	Resolve(ctx context.Context, email, password string) (Token, error)
}
