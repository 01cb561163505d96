package pool

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Pool is a generic, reusable worker pool configuration. It runs up to
// a fixed number of mapping operations concurrently and returns results
// aligned with the input order.
//
// Type parameters:
//   - T: the input task type
//   - R: the result type
type Pool[T any, R any] struct {
	workers         int
	taskBuffer      int
	chunkSize       int
	rateLimiter     *rate.Limiter
	continueOnError bool
	onTaskDone      func(index int, err error)
}

// New creates a pool with the given options.
// Default configuration: workers = DefaultWorkers, buffer = worker
// count, chunk size = DefaultChunkSize.
func New[T any, R any](opts ...Option) *Pool[T, R] {
	cfg := newConfig(opts...)

	return &Pool[T, R]{
		workers:         cfg.workers,
		taskBuffer:      cfg.taskBuffer,
		chunkSize:       cfg.chunkSize,
		rateLimiter:     cfg.rateLimiter,
		continueOnError: cfg.continueOnError,
		onTaskDone:      cfg.onTaskDone,
	}
}

// Process runs fn over tasks with bounded parallelism and returns the
// results in task order: results[i] is fn(tasks[i]) regardless of which
// worker finished first or in what order completions arrived.
//
// An empty task slice returns an empty result immediately without
// invoking fn. Otherwise fn is invoked exactly once per task; the first
// error settles the outcome, stops dispatching, and is returned. Tasks
// already in flight run to completion and their late results are
// dropped (see WithOnTaskDone).
func (p *Pool[T, R]) Process(
	ctx context.Context,
	tasks []T,
	fn ProcessFunc[T, R],
) ([]R, error) {
	return runProcess(ctx, p.settings(), tasks, fn)
}

// settings snapshots the pool's configuration for the free-function
// pipeline below. The pipeline lives in free generic functions rather
// than methods so ProcessChunked can instantiate it over batch types
// without creating an infinite instantiation cycle of Pool's method set.
func (p *Pool[T, R]) settings() *config {
	return &config{
		workers:         p.workers,
		taskBuffer:      p.taskBuffer,
		chunkSize:       p.chunkSize,
		rateLimiter:     p.rateLimiter,
		continueOnError: p.continueOnError,
		onTaskDone:      p.onTaskDone,
	}
}

func runProcess[T, R any](
	ctx context.Context,
	cfg *config,
	tasks []T,
	fn ProcessFunc[T, R],
) ([]R, error) {
	if len(tasks) == 0 {
		return []R{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	taskChan := make(chan indexedTask[T], cfg.taskBuffer)
	// Buffered to len(tasks) so a completion never blocks behind the
	// collector, even after the outcome has settled.
	resultChan := make(chan Result[R], len(tasks))

	numWorkers := min(cfg.workers, len(tasks))
	for range numWorkers {
		g.Go(func() error {
			return runWorker(gctx, cfg, taskChan, resultChan, fn)
		})
	}

	// Feed tasks in input order, each paired with its index.
	g.Go(func() error {
		defer close(taskChan)
		for idx, task := range tasks {
			select {
			case taskChan <- indexedTask[T]{task: task, index: idx}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	results := make([]R, len(tasks))
	var collectionErr error
	var collectionWg sync.WaitGroup
	collectionWg.Add(1)

	go func() {
		defer collectionWg.Done()
		for result := range resultChan {
			if result.Error != nil {
				if collectionErr == nil {
					collectionErr = result.Error
				}
				continue
			}
			results[result.Index] = result.Value
		}
	}()

	err := g.Wait()
	close(resultChan)
	collectionWg.Wait()

	if err != nil {
		return results, err
	}
	if collectionErr != nil {
		return results, collectionErr
	}
	return results, nil
}

// worker drains the task channel until it closes or the group context
// ends. Each slot of concurrency processes one task at a time, which is
// what bounds the number of in-flight mapping operations.
func runWorker[T, R any](
	ctx context.Context,
	cfg *config,
	taskChan <-chan indexedTask[T],
	resultChan chan<- Result[R],
	fn ProcessFunc[T, R],
) error {
	for {
		select {
		case task, ok := <-taskChan:
			if !ok {
				return nil
			}
			if cfg.rateLimiter != nil {
				if err := cfg.rateLimiter.Wait(ctx); err != nil {
					return err
				}
			}
			result, err := processWithRecovery(ctx, task.task, fn)
			if cfg.onTaskDone != nil {
				cfg.onTaskDone(task.index, err)
			}
			resultChan <- Result[R]{Value: result, Error: err, Index: task.index}
			if err != nil && !cfg.continueOnError {
				return err // settle on first error
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// processWithRecovery executes one task with panic recovery so a
// misbehaving mapping function surfaces as an error instead of
// crashing the process.
func processWithRecovery[T, R any](
	ctx context.Context,
	task T,
	fn ProcessFunc[T, R],
) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("worker panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	return fn(ctx, task)
}
