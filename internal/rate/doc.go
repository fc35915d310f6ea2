// Package rate provides internal primitives for the Redis-backed
// sliding-window limiter: key construction, window arithmetic, and the
// accept/reject evaluator.
//
// # Window semantics
//
// Two adjacent fixed-window counters approximate a continuous sliding
// window. The current window's counter is blended with a linearly fading
// fraction of the previous window's counter:
//
//	weighted = prev × (1 − elapsedFraction) + current
//
// Counters are written with a TTL spanning two window lengths so the
// previous window stays readable after rollover. They expire on their own
// and are never deleted.
//
// # What this package must NOT do
//
//   - Translate verdicts into HTTP responses (that lives in middleware).
//   - Be imported outside the reqguard module.
package rate
