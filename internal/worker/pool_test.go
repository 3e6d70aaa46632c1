package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func double() Func[int, int] {
	return func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	}
}

func TestRun_Sequential(t *testing.T) {
	var got []int
	err := Run(context.Background(), Config{Workers: 1, Logger: zerolog.Nop()}, []int{1, 2, 3}, double,
		func(r Result[int]) bool {
			got = append(got, r.Value)
			return true
		})

	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6}, got)
}

func TestRun_ParallelKeepsOrder(t *testing.T) {
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	// later items finish first
	slowFirst := func() Func[int, int] {
		return func(ctx context.Context, n int) (int, error) {
			time.Sleep(time.Duration(50-n) * 100 * time.Microsecond)
			return n, nil
		}
	}

	var indexes, values []int
	err := Run(context.Background(), Config{Workers: 8, Logger: zerolog.Nop()}, items, slowFirst,
		func(r Result[int]) bool {
			indexes = append(indexes, r.Index)
			values = append(values, r.Value)
			return true
		})

	require.NoError(t, err)
	assert.Equal(t, items, indexes)
	assert.Equal(t, items, values)
}

func TestRun_NewFuncPerWorker(t *testing.T) {
	var created atomic.Int32
	newFunc := func() Func[int, int] {
		created.Add(1)
		return double()
	}

	err := Run(context.Background(), Config{Workers: 3, Logger: zerolog.Nop()}, []int{1, 2, 3, 4, 5, 6}, newFunc,
		func(Result[int]) bool { return true })

	require.NoError(t, err)
	assert.Equal(t, int32(3), created.Load())
}

func TestRun_WorkersCappedByItems(t *testing.T) {
	var created atomic.Int32
	newFunc := func() Func[int, int] {
		created.Add(1)
		return double()
	}

	err := Run(context.Background(), Config{Workers: 16, Logger: zerolog.Nop()}, []int{1, 2}, newFunc,
		func(Result[int]) bool { return true })

	require.NoError(t, err)
	assert.Equal(t, int32(2), created.Load())
}

func TestRun_ErrorsAreReported(t *testing.T) {
	boom := errors.New("boom")
	failOdd := func() Func[int, int] {
		return func(ctx context.Context, n int) (int, error) {
			if n%2 == 1 {
				return 0, boom
			}
			return n, nil
		}
	}

	var failed []int
	err := Run(context.Background(), Config{Workers: 4, Logger: zerolog.Nop()}, []int{0, 1, 2, 3}, failOdd,
		func(r Result[int]) bool {
			if r.Err != nil {
				assert.ErrorIs(t, r.Err, boom)
				failed = append(failed, r.Index)
			}
			return true
		})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, failed)
}

func TestRun_StopOnFirstError(t *testing.T) {
	for _, workers := range []int{1, 4} {
		items := make([]int, 20)
		for i := range items {
			items[i] = i
		}
		failAt := func() Func[int, int] {
			return func(ctx context.Context, n int) (int, error) {
				if n == 5 {
					return 0, errors.New("bad input")
				}
				return n, nil
			}
		}

		var seen []int
		err := Run(context.Background(), Config{Workers: workers, Logger: zerolog.Nop()}, items, failAt,
			func(r Result[int]) bool {
				seen = append(seen, r.Index)
				return r.Err == nil
			})

		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, seen, "workers=%d", workers)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := Run(ctx, Config{Workers: 1, Logger: zerolog.Nop()}, []int{1, 2}, double,
		func(Result[int]) bool {
			called = true
			return true
		})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestRun_Empty(t *testing.T) {
	err := Run(context.Background(), Config{Workers: 4, Logger: zerolog.Nop()}, nil, double,
		func(Result[int]) bool {
			t.Fatal("emit called for empty input")
			return true
		})
	assert.NoError(t, err)
}
