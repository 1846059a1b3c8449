package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry_SucceedsOnSecondAttempt(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), 3, func(attempt int) error {
		attempts++
		if attempt == 0 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestWithRetry_ReturnsLastErrorAfterExhaustion(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), 3, func(attempt int) error {
		attempts++
		return errors.New("down")
	})
	require.EqualError(t, err, "down")
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	err := withRetry(ctx, 3, func(attempt int) error {
		attempts++
		return errors.New("down")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts, "cancellation interrupts the backoff wait")
}
