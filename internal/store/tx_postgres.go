package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	dErrors "confhub/pkg/domain-errors"
	"confhub/pkg/platform/tx"
)

const (
	defaultTxTimeout = 5 * time.Second
	maxTxAttempts    = 3

	// SQLSTATE for serialization_failure; Postgres raises it when two
	// serializable transactions cannot be ordered.
	pgSerializationFailure = "40001"
)

// PostgresTxRunner runs functions inside serializable transactions. Register
// and unregister read seatsAvailable before writing it, so serializable
// isolation is what prevents two registrants from both taking the last seat.
type PostgresTxRunner struct {
	db      *sql.DB
	timeout time.Duration
	// onRetry is invoked once per retried attempt, for metrics.
	onRetry func()
}

func NewPostgresTxRunner(db *sql.DB, onRetry func()) *PostgresTxRunner {
	return &PostgresTxRunner{db: db, timeout: defaultTxTimeout, onRetry: onRetry}
}

func (r *PostgresTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		if attempt > 0 && r.onRetry != nil {
			r.onRetry()
		}

		lastErr = r.attempt(ctx, fn)
		if lastErr == nil || !isSerializationFailure(lastErr) {
			return lastErr
		}
		if err := ctx.Err(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
		}
	}
	return dErrors.Wrap(lastErr, dErrors.CodeUnavailable, "transaction retries exhausted")
}

func (r *PostgresTxRunner) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	sqlTx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "begin transaction")
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	return sqlTx.Commit()
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgSerializationFailure
	}
	return false
}
