package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"albion-tracker/internal/constants"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// IsTransient reports whether err is a connection-level failure worth one
// more attempt: a dropped connection or a locked/busy database file.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// WithRetry runs fn, retrying exactly once after a short wait if the first
// attempt fails with a transient error. Other errors are returned as is.
func WithRetry[T any](ctx context.Context, logger zerolog.Logger, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	attempt := 0
	backoff := retry.WithMaxRetries(constants.DatabaseRetryLimit, retry.NewConstant(constants.DatabaseRetryWait))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		v, err := fn(ctx)
		if err != nil {
			if IsTransient(err) {
				logger.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("transient database error")
				return retry.RetryableError(err)
			}
			return err
		}
		result = v
		return nil
	})
	return result, err
}
