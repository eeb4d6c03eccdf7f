package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/paygrid-hr/payroll-backend-go/internal/pkg/database"
)

type txKey struct{}

// TxRunner executes a unit of work. The transactional implementation gives
// the pipeline its all-or-nothing write boundary; the sequential one is the
// documented weaker-consistency fallback for stores without multi-statement
// transactions. The implementation is selected once at startup, not
// discovered via exception handling at call time.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// NewTxRunner selects the runner from store capability.
func NewTxRunner(db *database.DB, transactional bool) TxRunner {
	if transactional {
		return &transactionalRunner{db: db}
	}
	slog.Warn("payroll writes running in best-effort sequential mode; partial writes are possible on failure")
	return &sequentialRunner{}
}

type transactionalRunner struct {
	db *database.DB
}

func (r *transactionalRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("rollback during panic recovery failed", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

type sequentialRunner struct{}

func (r *sequentialRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// GetQuerier returns the ambient transaction when fn runs under the
// transactional runner, the pool otherwise. Repositories call this so the
// same SQL works in both modes.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}
