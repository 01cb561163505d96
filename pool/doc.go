// Package pool provides a small, generic worker pool for running an
// ordered list of tasks with bounded parallelism.
//
// The primary type is Pool[T, R], a configured pool of workers which
// process tasks of type T and produce results of type R. A pool value is
// cheap, immutable after construction, and safe for concurrent use; each
// call to Process owns its own queue and result slots for the duration of
// that call.
//
// # Basic Usage
//
//	ctx := context.Background()
//	tasks := []int{1, 2, 3, 4}
//	p := pool.New[int, int](pool.WithWorkers(4))
//	results, err := p.Process(ctx, tasks, func(ctx context.Context, t int) (int, error) {
//	    return t * 2, nil
//	})
//
// Results are always aligned with the input: results[i] is the outcome of
// tasks[i], no matter which worker finished first. Every queued task is
// paired with its original index at dispatch time, so duplicate task
// values can never land in the wrong slot.
//
// # Processing Modes
//
//   - Process: maps a slice of tasks, results in input order
//   - ProcessChunked: maps fixed-size batches of tasks, flattened back
//     into input order
//   - ProcessMap: maps a map of tasks, results keyed like the input
//   - ProcessStream: maps tasks from a channel, results as they complete
//
// # Error Handling
//
// The first error returned by the mapping function settles the pool's
// outcome and stops dispatching new tasks. Tasks already in flight run to
// completion (there is no task cancellation) and their results are
// discarded; register WithOnTaskDone to observe them. The pool itself
// never retries. Compose the retry package around the mapping function
// when per-task resilience is wanted:
//
//	fn := retry.Wrap(fetch, retry.WithAttempts(3))
//	results, err := p.Process(ctx, urls, fn)
//
// Panics inside the mapping function are recovered and surfaced as errors
// so a single bad task cannot crash the process.
//
// # Rate Limiting
//
// Throughput can be capped to protect downstream services:
//
//	p := pool.New[string, Response](
//	    pool.WithWorkers(10),
//	    pool.WithRateLimit(5.0, 10), // 5 tasks/sec, burst of 10
//	)
package pool
