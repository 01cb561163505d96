package pool

import "context"

// ProcessFunc maps a single task of type T to a result of type R.
// It receives the context passed to the pool operation for
// cancellation/timeout control. Returning an error settles the pool's
// outcome with that error and halts further dispatching.
type ProcessFunc[T any, R any] func(ctx context.Context, task T) (R, error)

// BatchFunc maps an ordered batch of tasks to an ordered batch of
// results. The returned slice must have the same length as the input
// batch, with results[i] corresponding to batch[i]; ProcessChunked fails
// with ErrBatchLength when this contract is violated.
type BatchFunc[T any, R any] func(ctx context.Context, batch []T) ([]R, error)

// Result is the outcome of processing one task.
//
// Fields:
//   - Value: the result produced by the task (only valid if Error is nil)
//   - Error: any error that occurred during processing (nil on success)
//   - Index: the task's original position in the input slice
type Result[R any] struct {
	Value R
	Error error
	Index int
}

// indexedTask pairs a queued task value with its originating index so
// completion writes the result slot directly, with no ambiguity when the
// input contains duplicate values.
type indexedTask[T any] struct {
	task  T
	index int
}
