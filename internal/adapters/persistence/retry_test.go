package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fastRetry = retryConfig{maxRetries: 3, baseDelay: time.Millisecond, maxDelay: 4 * time.Millisecond}

func TestIsTransientSQLiteErr(t *testing.T) {
	assert.False(t, isTransientSQLiteErr(nil))
	assert.True(t, isTransientSQLiteErr(errors.New("database is locked (5) (SQLITE_BUSY)")))
	assert.True(t, isTransientSQLiteErr(errors.New("disk I/O error (522)")))
	assert.False(t, isTransientSQLiteErr(errors.New("UNIQUE constraint failed")))
}

func TestRetryOp_RetriesTransientErrors(t *testing.T) {
	calls := 0
	err := retryOp(context.Background(), fastRetry, func() error {
		calls++
		if calls < 3 {
			return errors.New("SQLITE_BUSY")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryOp_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := retryOp(context.Background(), fastRetry, func() error {
		calls++
		return errors.New("no such table")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryOp_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := retryOp(context.Background(), fastRetry, func() error {
		calls++
		return errors.New("database is locked")
	})

	assert.Error(t, err)
	assert.Equal(t, fastRetry.maxRetries+1, calls)
}

func TestRetryOp_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retryOp(ctx, retryConfig{maxRetries: 5, baseDelay: time.Second, maxDelay: time.Second}, func() error {
		return errors.New("SQLITE_LOCKED")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffDelay_IsCapped(t *testing.T) {
	for attempt := 0; attempt < 6; attempt++ {
		d := backoffDelay(fastRetry, attempt)
		assert.LessOrEqual(t, d, fastRetry.maxDelay+fastRetry.baseDelay)
	}
}
