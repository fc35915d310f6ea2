package rate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	headerLimit     = "RateLimit-Limit"
	headerPolicy    = "RateLimit-Policy"
	headerRemaining = "RateLimit-Remaining"
	headerLocation  = "Location"
)

// Verdict is the outcome of one limiter evaluation. Headers is always
// populated, on accept and reject alike, so the caller can merge it onto
// the outgoing response.
type Verdict struct {
	Allowed bool
	Headers map[string]string
	Message string
}

// Limiter evaluates the sliding-window policy against Redis counters.
// Safe for concurrent use; correctness under concurrency relies on the
// atomicity of single Redis commands, not on in-process locks.
type Limiter struct {
	redis     redis.UniversalClient
	rate      Rate
	keyPrefix string
	timeout   time.Duration
}

// NewLimiter creates a Limiter backed by the given Redis client.
// timeout bounds each evaluation's Redis round trips; zero disables
// the bound.
func NewLimiter(client redis.UniversalClient, r Rate, keyPrefix string, timeout time.Duration) *Limiter {
	return &Limiter{
		redis:     client,
		rate:      r,
		keyPrefix: keyPrefix,
		timeout:   timeout,
	}
}

// Rate returns the limiter's configured Rate.
func (l *Limiter) Rate() Rate {
	return l.rate
}

// key builds the counter address for one (path, client) pair and window.
//
// Example: "limiter:/api/v1/login:127.0.0.1:1678628520:minute:60"
func (l *Limiter) key(path, clientIP string, now time.Time, previous bool) string {
	windowTS := l.rate.CurrentWindowStart(now).Unix()
	if previous {
		windowTS = l.rate.PreviousWindowStart(now).Unix()
	}
	return fmt.Sprintf("%s:%s:%s:%d:%s:%d",
		l.keyPrefix, path, clientIP, windowTS, l.rate.Unit, l.rate.Count)
}

// Evaluate decides whether one request from clientIP against path is
// admitted at time now.
//
// A request rejected here never increments a counter, so rejections cost
// no quota. An admitted request increments the current window's counter
// and (re)sets its two-window TTL in a single non-transactional pipeline,
// so a counter can never be observed without an expiration. The admission
// check and the increment are separate round trips: a burst of concurrent
// requests may all pass the check and all increment, over-admitting by at
// most the concurrency width. That slack is an accepted property of the
// algorithm, not a bug.
//
// Any Redis failure, including a deadline hit, returns an error wrapping
// ErrRedisUnavailable and never an implicit allow.
func (l *Limiter) Evaluate(ctx context.Context, path, clientIP string, now time.Time) (Verdict, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	key := l.key(path, clientIP, now, false)
	count, err := l.counter(ctx, key)
	if err != nil {
		return Verdict{}, err
	}

	if count >= int64(l.rate.Count) {
		return Verdict{
			Allowed: false,
			Headers: l.headers(path, count, nil),
			Message: fmt.Sprintf("Request limit exceeded for this quota: '%s'.", l.rate),
		}, nil
	}

	prevKey := l.key(path, clientIP, now, true)
	prevCount, err := l.counter(ctx, prevKey)
	if err != nil {
		return Verdict{}, err
	}

	weighted := float64(prevCount)*(1-l.rate.ElapsedFraction(now)) + float64(count)
	headers := l.headers(path, count, &weighted)

	if weighted >= float64(l.rate.Count) {
		return Verdict{
			Allowed: false,
			Headers: headers,
			Message: fmt.Sprintf(
				"Request limit exceeded for this quota, overloaded %0.3f/%d for the latest window (%s).",
				weighted, l.rate.Count, l.rate.Unit),
		}, nil
	}

	// INCR and EXPIRE travel in one pipeline so a crash between them
	// cannot leave a counter without a TTL.
	pipe := l.redis.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.rate.CounterTTL(now))
	if _, err := pipe.Exec(ctx); err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return Verdict{Allowed: true, Headers: headers}, nil
}

func (l *Limiter) counter(ctx context.Context, key string) (int64, error) {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return count, nil
}

// headers builds the RateLimit response header set. With a weighted count
// the remaining capacity reflects the blended estimate; without one (the
// early reject path) it reflects the raw counter. Remaining never goes
// negative.
func (l *Limiter) headers(path string, hits int64, weighted *float64) map[string]string {
	h := map[string]string{
		headerLimit: strconv.Itoa(l.rate.Count),
		headerPolicy: fmt.Sprintf("%d;w=%d;comment=%q",
			l.rate.Count, l.rate.WindowSeconds(), "sliding window"),
		headerLocation: path,
	}

	if weighted != nil {
		remaining := l.rate.Count - int(*weighted)
		if remaining < 0 {
			remaining = 0
		}
		h[headerRemaining] = fmt.Sprintf("%d;comment=\"flood weight=%0.3f/%d\"",
			remaining, *weighted, l.rate.Count)
		return h
	}

	remaining := l.rate.Count - int(hits) - 1
	if remaining < 0 {
		remaining = 0
	}
	h[headerRemaining] = fmt.Sprintf("%d;comment=%q", remaining, "exceeded quota by count.")
	return h
}
