package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so stores can run the
// same queries inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ErrRetriesExhausted reports that a transaction kept hitting
// deadlocks or lock-wait timeouts and gave up.
var ErrRetriesExhausted = errors.New("transaction retries exhausted")

const maxTxRetries = 3

// RunInTx starts a transaction and runs fn. COMMIT if fn returns nil,
// ROLLBACK otherwise.
func RunInTx(ctx context.Context, conn *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := conn.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// RunInTxRetry is RunInTx with a bounded retry loop around InnoDB
// deadlocks (1213) and lock-wait timeouts (1205). A rolled-back
// attempt leaves no partial state, so rerunning fn is safe.
func RunInTxRetry(ctx context.Context, conn *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = RunInTx(ctx, conn, opts, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
	}
	return errors.Join(ErrRetriesExhausted, err)
}

func IsRetryable(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == 1213 || me.Number == 1205
}

// IsDuplicateEntry reports a unique-key violation (1062).
func IsDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// ReadOnly runs fn inside a read-only transaction.
func ReadOnly(ctx context.Context, conn *sql.DB, fn func(ctx context.Context, tx DBTX) error) error {
	return RunInTx(ctx, conn, &sql.TxOptions{ReadOnly: true}, fn)
}
