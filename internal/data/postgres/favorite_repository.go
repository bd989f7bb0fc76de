package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/asc-rental-marketplace/internal/domain/favorite"
	"github.com/asc-rental-marketplace/internal/platform/persistence"
)

// FavoriteRepository implements the favorite.Repository interface for PostgreSQL
type FavoriteRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewFavoriteRepository(logger *slog.Logger, db *persistence.PostgresDB) favorite.Repository {
	return &FavoriteRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *FavoriteRepository) WithTx(tx pgx.Tx) favorite.Repository {
	return &FavoriteRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *FavoriteRepository) Add(ctx context.Context, f *favorite.Favorite) error {
	query := `
		INSERT INTO favorites (client_id, property_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (client_id, property_id) DO NOTHING
	`

	if _, err := r.querier.Exec(ctx, query, f.ClientID, f.PropertyID, f.CreatedAt); err != nil {
		r.logger.Error("Failed to add favorite", "client_id", f.ClientID, "property_id", f.PropertyID.String(), "error", err)
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, clientID string, propertyID uuid.UUID) (bool, error) {
	query := `DELETE FROM favorites WHERE client_id = $1 AND property_id = $2`

	result, err := r.querier.Exec(ctx, query, clientID, propertyID)
	if err != nil {
		r.logger.Error("Failed to remove favorite", "client_id", clientID, "property_id", propertyID.String(), "error", err)
		return false, fmt.Errorf("failed to remove favorite: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ListPropertyIDs returns the client's favorites, most recently added first
func (r *FavoriteRepository) ListPropertyIDs(ctx context.Context, clientID string) ([]uuid.UUID, error) {
	query := `
		SELECT property_id
		FROM favorites
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.querier.Query(ctx, query, clientID)
	if err != nil {
		r.logger.Error("Failed to list favorites", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			r.logger.Error("Failed to scan favorite", "error", err)
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over favorites", "error", err)
		return nil, fmt.Errorf("error iterating over favorites: %w", err)
	}
	return ids, nil
}
