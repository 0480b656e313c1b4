package limiter_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_PeakNeverExceedsCapacity(t *testing.T) {
	t.Parallel()

	const (
		capacity = 5
		tasks    = 20
	)

	l := limiter.New(capacity)

	var (
		current atomic.Int64
		peak    atomic.Int64
		wg      sync.WaitGroup
	)

	for range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Do(context.Background(), func(context.Context) {
				n := current.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				current.Add(-1)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(capacity))
	assert.LessOrEqual(t, l.Peak(), capacity)
	assert.Positive(t, l.Peak())
	assert.Equal(t, 0, l.InFlight())
}

func TestLimiter_AcquireHonoursCancellation(t *testing.T) {
	t.Parallel()

	l := limiter.New(1)
	require.NoError(t, l.Acquire(context.Background()))
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, l.InFlight())
}

func TestLimiter_DoReleasesOnPanic(t *testing.T) {
	t.Parallel()

	l := limiter.New(1)

	func() {
		defer func() { _ = recover() }()
		_ = l.Do(context.Background(), func(context.Context) { panic("boom") })
	}()

	assert.Equal(t, 0, l.InFlight())
	require.NoError(t, l.Do(context.Background(), func(context.Context) {}))
}

func TestLimiter_DefaultCapacityAndObserver(t *testing.T) {
	t.Parallel()

	var seen []int
	l := limiter.New(0).WithObserver(func(n int) { seen = append(seen, n) })
	assert.Equal(t, limiter.DefaultCapacity, l.Capacity())

	require.NoError(t, l.Do(context.Background(), func(context.Context) {}))
	assert.Equal(t, []int{1, 0}, seen)
}
