package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/favorite"
	"github.com/asc-rental-marketplace/internal/domain/listing"
	"github.com/asc-rental-marketplace/internal/domain/shared"
)

type FavoriteServiceImpl struct {
	favorites favorite.Repository
	listings  listing.Repository
	workflows Workflows
}

func NewFavoriteService(favorites favorite.Repository, listings listing.Repository, workflows Workflows) FavoriteService {
	return &FavoriteServiceImpl{
		favorites: favorites,
		listings:  listings,
		workflows: workflows,
	}
}

func (s *FavoriteServiceImpl) Toggle(ctx context.Context, caller shared.Caller, propertyID uuid.UUID) (bool, error) {
	return s.workflows.ToggleFavorite(ctx, caller, propertyID)
}

// ListMine returns the client's favorited listings in any status
func (s *FavoriteServiceImpl) ListMine(ctx context.Context, caller shared.Caller) ([]*listing.Listing, error) {
	if err := caller.Require(shared.RoleClient); err != nil {
		return nil, err
	}

	ids, err := s.favorites.ListPropertyIDs(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*listing.Listing{}, nil
	}
	return nonNil(s.listings.ListByIDs(ctx, ids))
}
