package listing

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SearchFilter narrows the public catalog. Zero values disable a criterion.
type SearchFilter struct {
	Term        string
	MinPrice    int64
	MaxPrice    int64
	MinBedrooms int
	Limit       int
	Offset      int
}

// Repository defines listing persistence operations
type Repository interface {
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)

	// LockForUpdate reads the listing under a row lock held until the transaction ends
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Listing, error)
	UpdateStatus(ctx context.Context, listing *Listing) error

	// Search returns one page of AVAILABLE listings and the total match count
	Search(ctx context.Context, filter SearchFilter) ([]*Listing, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Listing, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Listing, error)
	Count(ctx context.Context) (int64, error)
	WithTx(tx pgx.Tx) Repository
}
