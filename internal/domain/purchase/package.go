package purchase

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Package is a read-only catalog entry of the coin shop. Price is in minor currency units.
type Package struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Coins       int64  `json:"coins"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

// PackageRepository reads the seeded catalog
type PackageRepository interface {
	List(ctx context.Context) ([]*Package, error)
	GetByID(ctx context.Context, id string) (*Package, error)
	WithTx(tx pgx.Tx) PackageRepository
}
