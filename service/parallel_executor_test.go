package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewOrderedExecutor(t *testing.T) {
	executor := NewOrderedExecutor(4)
	if executor.workers != 4 {
		t.Errorf("workers should be 4, got %d", executor.workers)
	}
}

func TestNewOrderedExecutor_InvalidWorkerCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		executor := NewOrderedExecutor(n)
		if executor.workers <= 0 {
			t.Errorf("workers should default to > 0 for %d, got %d", n, executor.workers)
		}
	}
}

func TestOrderedExecutor_EmptyRun(t *testing.T) {
	executor := NewOrderedExecutor(2)

	emitted := 0
	err := executor.Run(context.Background(), 0,
		func() bool { return false },
		func(ctx context.Context, index int) (any, error) { return nil, nil },
		func(index int, result any) { emitted++ })

	if err != nil {
		t.Errorf("empty run should return nil, got %v", err)
	}
	if emitted != 0 {
		t.Errorf("nothing should be emitted, got %d", emitted)
	}
}

func TestOrderedExecutor_RunsAllWork(t *testing.T) {
	executor := NewOrderedExecutor(4)

	var executed atomic.Int32
	var emitted atomic.Int32
	err := executor.Run(context.Background(), 10,
		func() bool { return false },
		func(ctx context.Context, index int) (any, error) {
			executed.Add(1)
			return index, nil
		},
		func(index int, result any) {
			emitted.Add(1)
		})

	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if executed.Load() != 10 {
		t.Errorf("all 10 items should have run, got %d", executed.Load())
	}
	if emitted.Load() != 10 {
		t.Errorf("all 10 items should have been emitted, got %d", emitted.Load())
	}
}

func TestOrderedExecutor_EmitsInIndexOrder(t *testing.T) {
	executor := NewOrderedExecutor(4)

	// Later items finish first, emission order must not care
	var mu sync.Mutex
	var order []int
	err := executor.Run(context.Background(), 8,
		func() bool { return false },
		func(ctx context.Context, index int) (any, error) {
			time.Sleep(time.Duration(8-index) * 5 * time.Millisecond)
			return index * 10, nil
		},
		func(index int, result any) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, index)
			if result.(int) != index*10 {
				t.Errorf("result for index %d should be %d, got %v", index, index*10, result)
			}
		})

	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(order) != 8 {
		t.Fatalf("expected 8 emissions, got %d", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Errorf("emission %d should be index %d, got %d", i, i, got)
		}
	}
}

func TestOrderedExecutor_ConcurrencyLimit(t *testing.T) {
	executor := NewOrderedExecutor(2)

	var current atomic.Int32
	var peak atomic.Int32
	err := executor.Run(context.Background(), 6,
		func() bool { return false },
		func(ctx context.Context, index int) (any, error) {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			current.Add(-1)
			return nil, nil
		},
		func(index int, result any) {})

	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if peak.Load() > 2 {
		t.Errorf("concurrency should not exceed 2, got %d", peak.Load())
	}
}

func TestOrderedExecutor_StopHaltsScheduling(t *testing.T) {
	executor := NewOrderedExecutor(1)

	var stop atomic.Bool
	var executed atomic.Int32
	var mu sync.Mutex
	var order []int
	err := executor.Run(context.Background(), 50,
		stop.Load,
		func(ctx context.Context, index int) (any, error) {
			executed.Add(1)
			return nil, nil
		},
		func(index int, result any) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, index)
			stop.Store(true)
		})

	if err != nil {
		t.Fatalf("stopping should not be an error, got %v", err)
	}
	if executed.Load() == 50 {
		t.Error("stop should have skipped remaining work")
	}
	// Everything that ran was still emitted as a gap-free prefix
	for i, got := range order {
		if got != i {
			t.Errorf("emission %d should be index %d, got %d", i, i, got)
		}
	}
}

func TestOrderedExecutor_WorkErrorStopsRun(t *testing.T) {
	executor := NewOrderedExecutor(2)

	wantErr := errors.New("work failed")
	err := executor.Run(context.Background(), 10,
		func() bool { return false },
		func(ctx context.Context, index int) (any, error) {
			if index == 3 {
				return nil, wantErr
			}
			return nil, nil
		},
		func(index int, result any) {})

	if !errors.Is(err, wantErr) {
		t.Errorf("expected the work error, got %v", err)
	}
}

func TestOrderedExecutor_ContextCancellation(t *testing.T) {
	executor := NewOrderedExecutor(2)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{}, 1)
	errChan := make(chan error, 1)
	go func() {
		errChan <- executor.Run(ctx, 4,
			func() bool { return false },
			func(ctx context.Context, index int) (any, error) {
				select {
				case started <- struct{}{}:
				default:
				}
				<-ctx.Done()
				return nil, ctx.Err()
			},
			func(index int, result any) {})
	}()

	<-started
	cancel()

	if err := <-errChan; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
