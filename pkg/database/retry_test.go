package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBusyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"database is locked", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"database table is locked", errors.New("database table is locked"), true},
		{"SQLITE_LOCKED", errors.New("SQLITE_LOCKED"), true},
		{"unrelated error", errors.New("connection refused"), false},
		{"constraint violation", errors.New("UNIQUE constraint failed: topics.id"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isBusyError(tt.err))
		})
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	first := backoff(0)
	assert.GreaterOrEqual(t, first, retryBaseDelay)
	assert.LessOrEqual(t, first, retryBaseDelay+retryBaseDelay/4+1)

	capped := backoff(20)
	assert.GreaterOrEqual(t, capped, retryMaxDelay)
	assert.LessOrEqual(t, capped, retryMaxDelay+retryMaxDelay/4+1)
}

func TestRetry(t *testing.T) {
	t.Parallel()

	t.Run("succeeds on first attempt", func(t *testing.T) {
		attempts := 0
		err := Retry(context.Background(), 5, func() error {
			attempts++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries busy errors until success", func(t *testing.T) {
		attempts := 0
		err := Retry(context.Background(), 5, func() error {
			attempts++
			if attempts < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("other errors are returned straight away", func(t *testing.T) {
		attempts := 0
		err := Retry(context.Background(), 5, func() error {
			attempts++
			return errors.New("no such table: topics")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		attempts := 0
		err := Retry(context.Background(), 2, func() error {
			attempts++
			return errors.New("database is locked")
		})
		require.Error(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("zero retries means one attempt", func(t *testing.T) {
		attempts := 0
		err := Retry(context.Background(), 0, func() error {
			attempts++
			return errors.New("database is locked")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		attempts := 0
		err := Retry(ctx, 50, func() error {
			attempts++
			return errors.New("database is locked")
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Less(t, attempts, 50)
	})
}
