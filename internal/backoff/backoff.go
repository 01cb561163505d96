// Package backoff computes retry delays: exponential growth in the
// attempt number with a bounded additive jitter and an optional cap.
package backoff

import (
	"math"
	"math/rand"
	"time"
)

// maxShift bounds the exponent so the shift cannot overflow int64.
const maxShift = 62

// Delay returns the wait before the attempt following attempt number n
// (1-based): base * 2^n, plus a uniformly random jitter in [0, jitter).
// A positive max caps the pre-jitter delay; max <= 0 means no cap, in
// which case large n saturates at the largest representable duration
// rather than wrapping negative.
func Delay(n int, base, jitter, max time.Duration) time.Duration {
	if n < 0 {
		n = 0
	}

	var d time.Duration
	switch {
	case base <= 0:
		d = 0
	case n >= maxShift || base > math.MaxInt64>>uint(n):
		d = math.MaxInt64
	default:
		d = base << uint(n)
	}

	if max > 0 && d > max {
		d = max
	}

	if jitter > 0 {
		j := time.Duration(rand.Int63n(int64(jitter)))
		if d > math.MaxInt64-j {
			return math.MaxInt64
		}
		d += j
	}
	return d
}
