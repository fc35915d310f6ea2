package reqguard

import "github.com/sirpi-io/reqguard/session"

// Verdict defines a public type used by reqguard APIs.
//
// Verdict is the outcome of one rate-limit evaluation. Headers is always
// populated so callers can merge the RateLimit-* set onto the outgoing
// response on accept and reject alike.
type Verdict struct {
	Allowed bool
	Headers map[string]string
	Message string
}

// AuthResult defines a public type used by reqguard APIs.
//
// AuthResult is the resolved outcome of a successful Authenticate call.
// Session carries the identity attributes handlers need for audit
// logging; Token is the raw bearer token the session is stored under.
type AuthResult struct {
	Token   string
	Session *session.Record
}
