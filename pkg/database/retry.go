package database

import (
	"context"
	"database/sql"
	"math/rand"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

const (
	retryBaseDelay = 50 * time.Millisecond
	retryMaxDelay  = 2 * time.Second
)

// isBusyError reports whether err is SQLite refusing the write because
// another process holds the lock. Another pepysdiary process (a script run
// next to the API) is the usual culprit.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED")
}

// backoff returns how long to wait before the given retry attempt (0-based).
func backoff(attempt int) time.Duration {
	delay := retryBaseDelay << attempt
	if delay <= 0 || delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	// Up to 25% jitter.
	return delay + time.Duration(rand.Int63n(int64(delay/4)+1))
}

// Retry calls fn until it succeeds, fails with something other than a busy
// error, or maxRetries retries have been spent.
func Retry(ctx context.Context, maxRetries int, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !isBusyError(err) || attempt >= maxRetries {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
}

// RunInTx runs fn inside a transaction, starting over when SQLite reports
// the database as busy.
func RunInTx(ctx context.Context, db *bun.DB, maxRetries int, fn func(ctx context.Context, tx bun.Tx) error) error {
	return Retry(ctx, maxRetries, func() error {
		return db.RunInTx(ctx, &sql.TxOptions{}, fn)
	})
}
