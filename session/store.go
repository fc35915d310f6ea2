package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is returned when Redis cannot be reached.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrSessionNotFound is returned when the token has no record in Redis,
// including after natural expiry.
var ErrSessionNotFound = errors.New("session not found")

// Store is the Redis-backed session store. prefix namespaces the keys;
// an empty prefix stores records under the raw token.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session Store backed by the given Redis client.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

func (s *Store) key(token string) string {
	if s.prefix == "" {
		return token
	}
	return s.prefix + ":" + token
}

// Save persists a Record under token with the given TTL.
func (s *Store) Save(ctx context.Context, token string, rec *Record, ttl time.Duration) error {
	data, err := Encode(rec)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get resolves token to its Record. An absent key returns
// ErrSessionNotFound; an undecodable blob returns ErrCorruptRecord.
func (s *Store) Get(ctx context.Context, token string) (*Record, error) {
	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return Decode(data)
}

// RotateRequestID stores requestID into rec and writes the whole record
// back under token, preserving the key's remaining TTL.
//
// This is a plain overwrite, not a compare-and-swap: the caller's
// check-then-write sequence admits two concurrent mutations carrying
// distinct fresh ids. Only an exact repeat of the stored id is rejected,
// and that rejection happens in the caller before this write.
func (s *Store) RotateRequestID(ctx context.Context, token string, rec *Record, requestID string) error {
	rec.RequestID = requestID

	data, err := Encode(rec)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(token), data, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Delete removes the record for token. Deleting an absent token is not
// an error; logout stays idempotent.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
