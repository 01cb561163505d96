package pool

import (
	"context"
	"time"
)

// Sleep suspends the caller for d, or until ctx ends, whichever comes
// first. It returns nil after the full delay and ctx.Err() when the
// context ended early. Non-positive durations return immediately
// (after honouring an already-ended context).
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
