package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/asc-rental-marketplace/internal/domain/purchase"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/platform/persistence"
)

// PackageRepository reads the coin_packages catalog seeded by migrations
type PackageRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewPackageRepository(logger *slog.Logger, db *persistence.PostgresDB) purchase.PackageRepository {
	return &PackageRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *PackageRepository) WithTx(tx pgx.Tx) purchase.PackageRepository {
	return &PackageRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// List returns the catalog cheapest first
func (r *PackageRepository) List(ctx context.Context) ([]*purchase.Package, error) {
	query := `
		SELECT id, name, coins, price, description
		FROM coin_packages
		ORDER BY price ASC, id
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list coin packages", "error", err)
		return nil, fmt.Errorf("failed to list coin packages: %w", err)
	}
	defer rows.Close()

	packages := make([]*purchase.Package, 0)
	for rows.Next() {
		var p purchase.Package
		if err := rows.Scan(&p.ID, &p.Name, &p.Coins, &p.Price, &p.Description); err != nil {
			r.logger.Error("Failed to scan coin package", "error", err)
			return nil, fmt.Errorf("failed to scan coin package: %w", err)
		}
		packages = append(packages, &p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over coin packages", "error", err)
		return nil, fmt.Errorf("error iterating over coin packages: %w", err)
	}
	return packages, nil
}

func (r *PackageRepository) GetByID(ctx context.Context, id string) (*purchase.Package, error) {
	query := `
		SELECT id, name, coins, price, description
		FROM coin_packages
		WHERE id = $1
	`

	var p purchase.Package
	if err := r.querier.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Coins, &p.Price, &p.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound{Entity: "package", ID: id}
		}
		r.logger.Error("Failed to get coin package", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get coin package: %w", err)
	}
	return &p, nil
}
