package ledger

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository is append-only: entries are never updated or deleted once written
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Entry, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	WithTx(tx pgx.Tx) Repository
}
