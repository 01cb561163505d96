package pool

import (
	"golang.org/x/time/rate"
)

const (
	// DefaultWorkers is the worker count used when WithWorkers is not given.
	DefaultWorkers = 10

	// DefaultChunkSize is the batch size used by ProcessChunked when
	// WithChunkSize is not given.
	DefaultChunkSize = 10
)

// Option is a functional option for configuring a pool.
type Option func(*config)

type config struct {
	workers         int
	taskBuffer      int
	chunkSize       int
	rateLimiter     *rate.Limiter
	continueOnError bool
	onTaskDone      func(index int, err error)
}

// WithWorkers sets the maximum number of concurrently running tasks.
// Values below 1 are ignored. Defaults to DefaultWorkers.
func WithWorkers(count int) Option {
	return func(cfg *config) {
		if count > 0 {
			cfg.workers = count
		}
	}
}

// WithTaskBuffer sets the buffer size of the internal task channel.
// A larger buffer can improve throughput at the cost of memory.
// Negative values are ignored. Defaults to the worker count.
func WithTaskBuffer(size int) Option {
	return func(cfg *config) {
		if size >= 0 {
			cfg.taskBuffer = size
		}
	}
}

// WithChunkSize sets the batch size used by ProcessChunked.
// Values below 1 are ignored. Defaults to DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(cfg *config) {
		if size > 0 {
			cfg.chunkSize = size
		}
	}
}

// WithRateLimit caps task throughput with a token-bucket limiter.
// tasksPerSecond is the sustained rate, burst the bucket size. Useful
// for protecting external services. No limit is applied by default.
//
// Example:
//
//	WithRateLimit(10, 5) // 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithContinueOnError keeps workers draining the queue after a task
// fails instead of stopping at the first error. Process still reports
// the first error; all tasks that succeeded have their slots filled.
func WithContinueOnError() Option {
	return func(cfg *config) {
		cfg.continueOnError = true
	}
}

// WithOnTaskDone registers a callback invoked after every task
// completes, with the task's input index and its error (nil on
// success). It also fires for tasks that finish after the pool's
// outcome has already settled on an earlier error, which is the only
// way to observe those late failures. The callback may run
// concurrently from multiple workers and must be safe for that.
func WithOnTaskDone(fn func(index int, err error)) Option {
	return func(cfg *config) {
		cfg.onTaskDone = fn
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		workers:   DefaultWorkers,
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.taskBuffer == 0 {
		cfg.taskBuffer = cfg.workers
	}
	return cfg
}
