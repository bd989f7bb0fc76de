package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/favorite"
	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// ToggleFavorite flips membership of the listing in the client's favorites and returns the new state
func (e *Engine) ToggleFavorite(ctx context.Context, caller shared.Caller, propertyID uuid.UUID) (bool, error) {
	if err := caller.Require(shared.RoleClient); err != nil {
		return false, err
	}
	logger := e.loggerFor(caller, "toggle_favorite")

	var favorited bool
	err := e.runner.InTx(ctx, func(ctx context.Context, s Stores) error {
		if _, err := s.Users.GetClient(ctx, caller.UserID); err != nil {
			return err
		}
		if _, err := s.Listings.GetByID(ctx, propertyID); err != nil {
			return err
		}

		removed, err := s.Favorites.Remove(ctx, caller.UserID, propertyID)
		if err != nil {
			return err
		}
		if removed {
			favorited = false
			return nil
		}

		favorited = true
		return s.Favorites.Add(ctx, &favorite.Favorite{
			ClientID:   caller.UserID,
			PropertyID: propertyID,
			CreatedAt:  e.clock(),
		})
	})
	if err != nil {
		logger.Info("Toggle favorite failed", "property_id", propertyID.String(), "error", err)
		return false, err
	}

	logger.Debug("Favorite toggled", "property_id", propertyID.String(), "favorited", favorited)
	return favorited, nil
}
