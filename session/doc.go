// Package session stores bearer-token session records in Redis.
//
// The opaque token issued by the identity provider is the Redis key;
// existence of the key is the sole source of truth for token validity.
// Records are JSON blobs carrying the identity attributes handlers need
// plus the last idempotency request id. Sessions expire through their
// Redis TTL or are deleted explicitly at logout.
package session
