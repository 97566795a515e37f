package feed

import "time"

const (
	defaultBaseDelay = 1 * time.Second
	defaultMaxDelay  = 60 * time.Second
)

// Backoff returns base * 2^retry capped at max. A negative retry returns
// base.
func Backoff(retry int, base, max time.Duration) time.Duration {
	if retry < 0 {
		return base
	}
	if retry > 30 {
		return max
	}
	d := base * time.Duration(1<<retry)
	if d > max || d <= 0 {
		return max
	}
	return d
}
