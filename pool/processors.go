package pool

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ProcessMap is like Process but takes tasks as a map and returns
// results under the same keys. Useful when tasks are naturally keyed;
// iteration order is the map's, so no dispatch-order guarantee exists.
func (p *Pool[T, R]) ProcessMap(
	ctx context.Context,
	tasks map[string]T,
	fn ProcessFunc[T, R],
) (map[string]R, error) {
	if len(tasks) == 0 {
		return map[string]R{}, nil
	}

	type keyedTask struct {
		task T
		key  string
	}

	type keyedResult struct {
		value R
		err   error
		key   string
	}

	g, gctx := errgroup.WithContext(ctx)

	taskChan := make(chan keyedTask, p.taskBuffer)
	resultChan := make(chan keyedResult, len(tasks))

	numWorkers := min(p.workers, len(tasks))
	for range numWorkers {
		g.Go(func() error {
			for {
				select {
				case task, ok := <-taskChan:
					if !ok {
						return nil
					}
					if p.rateLimiter != nil {
						if err := p.rateLimiter.Wait(gctx); err != nil {
							return err
						}
					}
					result, err := processWithRecovery(gctx, task.task, fn)
					resultChan <- keyedResult{key: task.key, value: result, err: err}
					if err != nil && !p.continueOnError {
						return err
					}
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		})
	}

	g.Go(func() error {
		defer close(taskChan)
		for key, task := range tasks {
			select {
			case taskChan <- keyedTask{key: key, task: task}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	results := make(map[string]R, len(tasks))
	var collectionErr error
	var collectionWg sync.WaitGroup
	collectionWg.Add(1)

	go func() {
		defer collectionWg.Done()
		for result := range resultChan {
			if result.err != nil {
				if collectionErr == nil {
					collectionErr = result.err
				}
				continue
			}
			results[result.key] = result.value
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

// ProcessStream processes tasks arriving on a channel instead of a
// slice. Results are emitted as they complete, so their order follows
// completion, not arrival. The caller must close taskChan to end the
// stream; resultChan and errChan are closed once all workers drain.
// At most one error is sent on errChan.
func (p *Pool[T, R]) ProcessStream(
	ctx context.Context,
	taskChan <-chan T,
	fn ProcessFunc[T, R],
) (resultChan <-chan R, errChan <-chan error) {
	resChan := make(chan R, p.taskBuffer)
	errCh := make(chan error, 1)
	dispatchChan := make(chan T, p.taskBuffer)

	go func() {
		defer close(resChan)
		defer close(errCh)

		g, gctx := errgroup.WithContext(ctx)

		for range p.workers {
			g.Go(func() error {
				for {
					select {
					case task, ok := <-dispatchChan:
						if !ok {
							return nil
						}
						if p.rateLimiter != nil {
							if err := p.rateLimiter.Wait(gctx); err != nil {
								return err
							}
						}
						result, err := processWithRecovery(gctx, task, fn)
						if err != nil && !p.continueOnError {
							return err
						}
						if err != nil {
							continue
						}
						select {
						case resChan <- result:
						case <-gctx.Done():
							return gctx.Err()
						}
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			})
		}

		g.Go(func() error {
			defer close(dispatchChan)
			for task := range taskChan {
				select {
				case dispatchChan <- task:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			errCh <- err
		}
	}()

	return resChan, errCh
}
