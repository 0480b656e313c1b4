package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPermanent = errors.New("permanent")

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Do(context.Background(), retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond},
		func(context.Context) error {
			calls++
			if calls < 3 {
				return &retry.Transient{Err: errors.New("flaky")}
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Do(context.Background(), retry.Config{MaxAttempts: 5, InitialDelay: time.Millisecond},
		func(context.Context) error {
			calls++
			return fmt.Errorf("wrapped: %w", errPermanent)
		})

	require.ErrorIs(t, err, errPermanent)
	assert.Equal(t, 1, calls)
}

func TestDo_ReturnsLastErrorWhenAttemptsExhausted(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Do(context.Background(), retry.Config{MaxAttempts: 2, InitialDelay: time.Millisecond},
		func(context.Context) error {
			calls++
			return &retry.Transient{Err: errPermanent}
		})

	require.ErrorIs(t, err, errPermanent)
	assert.Equal(t, 2, calls)
}

func TestDo_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Do(ctx, retry.Config{}, func(context.Context) error {
		t.Fatal("fn must not run on a cancelled context")
		return nil
	})

	require.ErrorIs(t, err, retry.ErrContextCancelled)
	require.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	assert.False(t, retry.IsTransient(nil))
	assert.False(t, retry.IsTransient(errPermanent))
	assert.False(t, retry.IsTransient(context.Canceled))
	assert.True(t, retry.IsTransient(&retry.Transient{Err: errPermanent}))
}
