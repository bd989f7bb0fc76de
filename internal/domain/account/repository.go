package account

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByOwnerID(ctx context.Context, ownerID string) (*Account, error)

	// Update persists balance and version, guarded by the version the caller read
	Update(ctx context.Context, account *Account) error

	// LockForUpdate acquires a row lock held until the surrounding transaction ends
	LockForUpdate(ctx context.Context, ownerID string) (*Account, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	OwnerID string
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for account of owner: " + e.OwnerID
}
