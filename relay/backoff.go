package relay

import "time"

// Modified from https://blog.gopheracademy.com/advent-2014/backoff/

// BackoffPolicy maps a retry number to how long to wait before it. Retries
// past the end of Intervals reuse the last entry.
type BackoffPolicy struct {
	Intervals []time.Duration
}

// FixedBackoff waits the same interval before every retry
func FixedBackoff(interval time.Duration) BackoffPolicy {
	return BackoffPolicy{
		Intervals: []time.Duration{interval},
	}
}

func (b BackoffPolicy) Duration(n int) time.Duration {
	if len(b.Intervals) == 0 {
		return DefaultRetryInterval
	}

	if n < 0 {
		n = 0
	}

	if n >= len(b.Intervals) {
		n = len(b.Intervals) - 1
	}

	return b.Intervals[n]
}
