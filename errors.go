package reqguard

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the policy engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrRateLimited is an exported constant or variable used by the policy engine.
	ErrRateLimited = errors.New("request limit exceeded")
	// ErrCacheUnavailable is an exported constant or variable used by the policy engine.
	ErrCacheUnavailable = errors.New("cache unavailable")
	// ErrTokenInvalid is an exported constant or variable used by the policy engine.
	ErrTokenInvalid = errors.New("token expired")
	// ErrMalformedBearer is an exported constant or variable used by the policy engine.
	ErrMalformedBearer = errors.New("authorization must be a bearer token")
	// ErrMissingRequestID is an exported constant or variable used by the policy engine.
	ErrMissingRequestID = errors.New("request id required for idempotency")
	// ErrDuplicateRequest is an exported constant or variable used by the policy engine.
	ErrDuplicateRequest = errors.New("duplicate request")
	// ErrInvalidCredentials is an exported constant or variable used by the policy engine.
	ErrInvalidCredentials = errors.New("wrong email or password")
	// ErrClientCredentials is an exported constant or variable used by the policy engine.
	ErrClientCredentials = errors.New("invalid client id or secret")
	// ErrIdentityUnavailable is an exported constant or variable used by the policy engine.
	ErrIdentityUnavailable = errors.New("identity provider unavailable")
)
