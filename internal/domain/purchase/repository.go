package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines purchase persistence
type Repository interface {
	Create(ctx context.Context, purchase *Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// ConfirmPending moves a PENDING purchase to CONFIRMED with a compare-and-swap on status.
	// It returns false, with a nil purchase, when no PENDING row matched.
	ConfirmPending(ctx context.Context, id uuid.UUID, confirmedAt time.Time) (*Purchase, bool, error)

	// ListByOwner returns the owner's purchases, newest first, with their package
	ListByOwner(ctx context.Context, ownerID string) ([]*Purchase, error)

	// ListPending returns every PENDING purchase, oldest first, with its package
	ListPending(ctx context.Context) ([]*Purchase, error)
	CountPending(ctx context.Context) (int64, error)
	WithTx(tx pgx.Tx) Repository
}
