// Package retry wraps fallible functions with automatic re-invocation,
// exponential backoff, and jitter.
//
// Wrap takes any function shaped like pool.ProcessFunc and returns one
// with the identical signature that retries on failure, so a wrapped
// function drops straight into a worker pool:
//
//	fetch := retry.Wrap(doFetch,
//	    retry.WithAttempts(5),
//	    retry.WithBackoff(200*time.Millisecond),
//	)
//	results, err := p.Process(ctx, urls, fetch)
//
// After a failed attempt n the wrapper waits backoff * 2^n plus a
// uniformly random jitter in [0, jitter) before attempting again. When
// every attempt fails, the last error is returned unchanged;
// WrapWithDefault substitutes a caller-supplied value instead.
//
// By default the backoff has no ceiling, so large attempt counts can
// produce very long waits; WithMaxBackoff opts into a cap.
//
// Retry state lives entirely within one invocation of the wrapped
// function, so the same wrapped function is safe to call concurrently.
package retry
