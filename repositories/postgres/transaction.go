package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/upb/coffee-shop/backend/repositories"
	"go.uber.org/zap"
)

type txKey struct{}

// TransactionManager opens transactions on the drinks pool
type TransactionManager struct {
	db     *DB
	logger *zap.Logger
}

func NewTransactionManager(db *DB, logger *zap.Logger) repositories.TransactionManager {
	return &TransactionManager{db: db, logger: logger}
}

// Begin opens a transaction bound to ctx
func (tm *TransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	sqlTx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	tm.logger.Debug("transaction opened")
	return &Transaction{tx: sqlTx, ctx: ctx, logger: tm.logger}, nil
}

// InTransaction calls fn with a context carrying the transaction. A nil
// result commits; an error or a panic rolls back. Calls made with a context
// that already carries a transaction run inside it.
func (tm *TransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	if outer, ok := GetTransactionFromContext(ctx); ok {
		return fn(ctx, outer)
	}

	tx, err := tm.Begin(ctx)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx), tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			tm.logger.Error("rollback after failed unit of work",
				zap.Error(rbErr),
				zap.NamedError("cause", err))
		}
		return err
	}

	committed = true
	return tx.Commit()
}

// Transaction adapts *sql.Tx to repositories.Transaction
type Transaction struct {
	tx     *sql.Tx
	ctx    context.Context
	logger *zap.Logger
}

func (t *Transaction) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	t.logger.Debug("transaction committed")
	return nil
}

// Rollback is a no-op on a transaction that already finished
func (t *Transaction) Rollback() error {
	err := t.tx.Rollback()
	switch {
	case err == nil:
		t.logger.Debug("transaction rolled back")
		return nil
	case errors.Is(err, sql.ErrTxDone):
		return nil
	default:
		return fmt.Errorf("rollback transaction: %w", err)
	}
}

func (t *Transaction) Context() context.Context {
	return t.ctx
}

// GetTransactionFromContext returns the transaction InTransaction stored on ctx
func GetTransactionFromContext(ctx context.Context) (repositories.Transaction, bool) {
	tx, ok := ctx.Value(txKey{}).(repositories.Transaction)
	return tx, ok
}

// Executor is the query surface shared by *sql.DB and *sql.Tx
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// GetExecutor picks the transaction on ctx when there is one, else the pool
func GetExecutor(ctx context.Context, db *DB) Executor {
	tx, ok := GetTransactionFromContext(ctx)
	if !ok {
		return db.DB
	}
	if pgTx, ok := tx.(*Transaction); ok {
		return pgTx.tx
	}
	return db.DB
}
