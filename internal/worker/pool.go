// Package worker runs independent conversions on a bounded pool while
// reporting results in submission order.
package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Func processes one item
type Func[T, R any] func(ctx context.Context, item T) (R, error)

// Result is the outcome for the item at Index
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

// Config configures a pool run
type Config struct {
	// Workers is the number of goroutines; values below 2 run the items
	// sequentially on the calling goroutine.
	Workers int
	Logger  zerolog.Logger
}

// Run processes items with cfg.Workers goroutines. newFunc is called once
// per worker so each worker can own state that is not safe to share.
// emit receives results on the calling goroutine in item order; returning
// false stops the run and cancels outstanding work. Run returns the
// parent context's error if it was cancelled, nil otherwise.
func Run[T, R any](ctx context.Context, cfg Config, items []T, newFunc func() Func[T, R], emit func(Result[R]) bool) error {
	if cfg.Workers < 2 || len(items) < 2 {
		return runSequential(ctx, items, newFunc(), emit)
	}

	workers := cfg.Workers
	if workers > len(items) {
		workers = len(items)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	indexes := make(chan int)
	results := make(chan Result[R], workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			fn := newFunc()
			cfg.Logger.Debug().Int("worker", id).Msg("worker started")
			for i := range indexes {
				v, err := fn(runCtx, items[i])
				select {
				case results <- Result[R]{Index: i, Value: v, Err: err}:
				case <-runCtx.Done():
					return
				}
			}
		}(w)
	}

	go func() {
		defer close(indexes)
		for i := range items {
			select {
			case indexes <- i:
			case <-runCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	pending := make(map[int]Result[R])
	next := 0
	stopped := false
	for r := range results {
		if stopped {
			continue
		}
		pending[r.Index] = r
		for {
			ready, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if !emit(ready) {
				stopped = true
				cancel()
				break
			}
		}
	}

	if !stopped {
		return ctx.Err()
	}
	return nil
}

func runSequential[T, R any](ctx context.Context, items []T, fn Func[T, R], emit func(Result[R]) bool) error {
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, err := fn(ctx, item)
		if !emit(Result[R]{Index: i, Value: v, Err: err}) {
			return nil
		}
	}
	return nil
}
