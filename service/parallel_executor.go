package service

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// OrderedExecutor runs indexed work items concurrently while
// delivering their results in index order. Checking files in parallel
// must not reorder the report: a file's findings are only emitted once
// every earlier file has been emitted.
type OrderedExecutor struct {
	workers int
}

// NewOrderedExecutor creates an executor with the given concurrency.
// Zero or negative means one worker per CPU.
func NewOrderedExecutor(workers int) *OrderedExecutor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &OrderedExecutor{workers: workers}
}

// Run executes work for every index in [0, count) with bounded
// concurrency and hands each result to emit in strictly increasing
// index order. shouldStop is polled before each new index is
// scheduled; once it reports true nothing new starts, but work already
// in flight still completes and is emitted. A work error cancels the
// remaining work and is returned.
func (e *OrderedExecutor) Run(
	ctx context.Context,
	count int,
	shouldStop func() bool,
	work func(ctx context.Context, index int) (any, error),
	emit func(index int, result any),
) error {
	if count == 0 {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	var mu sync.Mutex
	pending := make(map[int]any)
	next := 0

	for i := 0; i < count; i++ {
		if shouldStop != nil && shouldStop() {
			break
		}

		index := i
		g.Go(func() error {
			// Check if context is already cancelled
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}

			result, err := work(gCtx, index)
			if err != nil {
				return err
			}

			// Buffer the result and flush the completed prefix
			mu.Lock()
			defer mu.Unlock()
			pending[index] = result
			for {
				r, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				emit(next, r)
				next++
			}
			return nil
		})
	}

	return g.Wait()
}
