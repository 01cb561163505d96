package pool

import (
	"context"
	"errors"
	"fmt"
)

// ErrBatchLength reports a BatchFunc that returned a result batch whose
// length differs from its input batch. ProcessChunked fails fast with
// this error instead of silently misaligning results.
var ErrBatchLength = errors.New("batch result length mismatch")

// Chunk splits items into ordered sub-slices of the given size. Every
// chunk has exactly size elements except possibly the last, which has
// between 1 and size. Concatenating the chunks in order reproduces the
// input exactly; an empty input yields an empty result.
//
// The chunks share the input's backing array but are capacity-capped,
// so appending to a chunk never clobbers a neighbour.
//
// size must be at least 1; Chunk panics otherwise.
func Chunk[T any](items []T, size int) [][]T {
	if size < 1 {
		panic(fmt.Sprintf("pool: chunk size must be at least 1, got %d", size))
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for size < len(items) {
		chunks = append(chunks, items[:size:size])
		items = items[size:]
	}
	if len(items) > 0 {
		chunks = append(chunks, items)
	}
	return chunks
}

// ProcessChunked runs fn over fixed-size batches of tasks with bounded
// parallelism and returns the flattened results in task order. The
// batch size is set with WithChunkSize; the worker budget applies to
// batches, so up to workers batches are mapped concurrently.
//
// fn must return one result per input, in input order. A batch whose
// result length mismatches fails the whole run with an error wrapping
// ErrBatchLength.
func (p *Pool[T, R]) ProcessChunked(
	ctx context.Context,
	tasks []T,
	fn BatchFunc[T, R],
) ([]R, error) {
	if len(tasks) == 0 {
		return []R{}, nil
	}

	batches := Chunk(tasks, p.chunkSize)

	// Same pipeline, instantiated over batches instead of single tasks.
	inner := &config{
		workers:         p.workers,
		taskBuffer:      p.taskBuffer,
		rateLimiter:     p.rateLimiter,
		continueOnError: p.continueOnError,
	}

	batchResults, err := runProcess(ctx, inner, batches, func(ctx context.Context, batch []T) ([]R, error) {
		out, err := fn(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(out) != len(batch) {
			return nil, fmt.Errorf("%w: got %d results for %d inputs", ErrBatchLength, len(out), len(batch))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	results := make([]R, 0, len(tasks))
	for _, batch := range batchResults {
		results = append(results, batch...)
	}
	return results, nil
}
