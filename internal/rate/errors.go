package rate

import "errors"

// ErrRedisUnavailable wraps any Redis transport failure so callers can
// distinguish infrastructure faults from a limit being exceeded.
var ErrRedisUnavailable = errors.New("redis unavailable")
