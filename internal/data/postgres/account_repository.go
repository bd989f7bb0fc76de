// Package postgres provides PostgreSQL implementations of the domain repositories.
// Every repository can be bound to a transaction with WithTx so a workflow's reads and
// writes commit or roll back together.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/asc-rental-marketplace/internal/domain/account"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/platform/persistence"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be the pool or a pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository whose statements run inside tx
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (owner_id, balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.querier.Exec(ctx, query, acc.OwnerID, acc.Balance, acc.Version, acc.CreatedAt, acc.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create account", "owner_id", acc.OwnerID, "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (r *AccountRepository) GetByOwnerID(ctx context.Context, ownerID string) (*account.Account, error) {
	query := `
		SELECT owner_id, balance, version, created_at, updated_at
		FROM accounts
		WHERE owner_id = $1
	`
	return r.getOne(ctx, query, ownerID, "get account")
}

// LockForUpdate obtains a row lock on the account and returns its current state.
// Concurrent debits of the same owner queue behind the lock.
func (r *AccountRepository) LockForUpdate(ctx context.Context, ownerID string) (*account.Account, error) {
	query := `
		SELECT owner_id, balance, version, created_at, updated_at
		FROM accounts
		WHERE owner_id = $1
		FOR UPDATE
	`
	return r.getOne(ctx, query, ownerID, "lock account for update")
}

func (r *AccountRepository) getOne(ctx context.Context, query, ownerID, op string) (*account.Account, error) {
	var acc account.Account
	err := r.querier.QueryRow(ctx, query, ownerID).Scan(
		&acc.OwnerID,
		&acc.Balance,
		&acc.Version,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound{Entity: "account", ID: ownerID}
		}
		r.logger.Error("Failed to "+op, "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	return &acc, nil
}

// Update writes balance and version, checking the version the account was read at
func (r *AccountRepository) Update(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET balance = $1, version = $2, updated_at = $3
		WHERE owner_id = $4 AND version = $5
	`

	result, err := r.querier.Exec(ctx, query,
		acc.Balance,
		acc.Version,
		acc.UpdatedAt,
		acc.OwnerID,
		acc.Version-1, // Previous version for optimistic locking
	)
	if err != nil {
		r.logger.Error("Failed to update account", "owner_id", acc.OwnerID, "error", err)
		return fmt.Errorf("failed to update account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrConcurrentModification{OwnerID: acc.OwnerID}
	}

	return nil
}
