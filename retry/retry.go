package retry

import (
	"context"
	"time"

	"github.com/velomir/taskpool/internal/backoff"
)

// Func is a fallible operation taking one input. It is structurally
// identical to pool.ProcessFunc, so wrapped functions compose directly
// with a worker pool.
type Func[T any, R any] func(ctx context.Context, in T) (R, error)

// Wrap returns a function with the same signature as fn that invokes it
// up to the configured number of attempts, waiting an exponentially
// growing, jittered delay between failures. The first success returns
// immediately; when every attempt fails, the last attempt's error is
// returned unchanged.
//
// Context cancellation during a backoff wait aborts the remaining
// attempts and returns ctx.Err().
func Wrap[T any, R any](fn Func[T, R], opts ...Option) Func[T, R] {
	cfg := newConfig(opts...)

	return func(ctx context.Context, in T) (R, error) {
		return attempt(ctx, cfg, in, fn)
	}
}

// WrapWithDefault is Wrap, except that retry exhaustion returns def
// with a nil error instead of the last failure. def is returned as-is,
// not copied. Context cancellation still propagates as an error; only
// genuine exhaustion is replaced by the default.
func WrapWithDefault[T any, R any](fn Func[T, R], def R, opts ...Option) Func[T, R] {
	cfg := newConfig(opts...)

	return func(ctx context.Context, in T) (R, error) {
		result, err := attempt(ctx, cfg, in, fn)
		if err == nil || ctx.Err() != nil {
			return result, err
		}
		return def, nil
	}
}

// Do runs an input-free operation with retries, without constructing a
// wrapper first.
func Do[R any](ctx context.Context, fn func(ctx context.Context) (R, error), opts ...Option) (R, error) {
	cfg := newConfig(opts...)
	wrapped := func(ctx context.Context, _ struct{}) (R, error) {
		return fn(ctx)
	}
	return attempt(ctx, cfg, struct{}{}, wrapped)
}

// attempt drives the retry state machine for one invocation. All state
// is local, so concurrent calls to the same wrapped function never
// interfere.
func attempt[T any, R any](ctx context.Context, cfg *config, in T, fn Func[T, R]) (R, error) {
	var result R
	var lastErr error

	for n := 1; n <= cfg.attempts; n++ {
		result, lastErr = fn(ctx, in)
		if lastErr == nil {
			return result, nil
		}

		if cfg.onError != nil {
			cfg.onError(lastErr)
		}

		if n == cfg.attempts {
			break
		}

		delay := backoff.Delay(n, cfg.backoff, cfg.jitter, cfg.maxBackoff)
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		}
	}

	return result, lastErr
}
