package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxFunc runs inside a transaction.
type TxFunc func(pgx.Tx) error

// Beginner is satisfied by *pgxpool.Pool and pgx.Conn.
type Beginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// WithTransaction runs fn in a single transaction.
// The transaction is rolled back when fn returns an error or panics, and committed otherwise.
func WithTransaction(ctx context.Context, db Beginner, opts pgx.TxOptions, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WithTransactionRetry is WithTransaction wrapped in RetryWithExponentialBackoff.
// Every attempt opens a fresh transaction, so fn must not keep state between calls.
func WithTransactionRetry(ctx context.Context, db Beginner, opts pgx.TxOptions, fn TxFunc, retryOpts ...RetryOption) error {
	return RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		return WithTransaction(ctx, db, opts, fn)
	}, retryOpts...)
}

// ParseIsoLevel maps a config value to a pgx isolation level.
func ParseIsoLevel(s string) (pgx.TxIsoLevel, error) {
	switch s {
	case "", "read committed", "read_committed":
		return pgx.ReadCommitted, nil
	case "repeatable read", "repeatable_read":
		return pgx.RepeatableRead, nil
	case "serializable":
		return pgx.Serializable, nil
	default:
		return "", fmt.Errorf("unknown isolation level %q", s)
	}
}
