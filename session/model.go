package session

// Record is the cached state behind one bearer token. Created at login,
// read on every authenticated request, and rewritten whenever a mutating
// request rotates RequestID.
type Record struct {
	// Email identifies the authenticated user for handlers and audit.
	Email string `json:"email"`

	// RequestID is the idempotency key of the most recent mutating
	// request. Empty until the first mutation. A mutating request
	// presenting the same id again is rejected, not reprocessed.
	RequestID string `json:"request_id,omitempty"`

	// Attributes carries any additional identity claims handlers need.
	Attributes map[string]string `json:"attributes,omitempty"`
}
