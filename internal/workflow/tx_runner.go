package workflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/asc-rental-marketplace/internal/domain/account"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/platform/persistence"
)

// TxRunner executes fn as one unit of work. Returning an error from fn aborts every write fn made.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

// SQLSTATE codes that signal contention rather than a broken request
const (
	sqlStateDeadlock             = "40P01"
	sqlStateSerializationFailure = "40001"
	sqlStateLockNotAvailable     = "55P03"
	sqlStateQueryCanceled        = "57014"
)

// PostgresTxRunner runs units of work in a PostgreSQL READ COMMITTED transaction
type PostgresTxRunner struct {
	db     *persistence.PostgresDB
	stores Stores
	logger *slog.Logger
}

func NewPostgresTxRunner(db *persistence.PostgresDB, stores Stores, logger *slog.Logger) *PostgresTxRunner {
	return &PostgresTxRunner{
		db:     db,
		stores: stores,
		logger: logger,
	}
}

func (r *PostgresTxRunner) InTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	err := r.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, r.stores.WithTx(tx))
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, shared.ErrTransientFailure{}) {
		return err
	}
	if isTransient(err) {
		r.logger.Warn("Transaction aborted by storage contention", "error", err)
		return shared.ErrTransientFailure{Err: err}
	}
	return err
}

// isTransient reports whether err is safe to retry without re-checking preconditions
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var conflict account.ErrConcurrentModification
	if errors.As(err, &conflict) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateDeadlock, sqlStateSerializationFailure, sqlStateLockNotAvailable, sqlStateQueryCanceled:
			return true
		}
	}
	return false
}
