package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/listing"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/workflow"
)

// SearchQuery holds the public catalog filters. Zero values disable a filter.
type SearchQuery struct {
	Term        string
	MinPrice    int64
	MaxPrice    int64
	MinBedrooms int
	Page        int
	PerPage     int
}

// ListingPage is one page of catalog results
type ListingPage struct {
	Listings []*listing.Listing
	Page     int
	PerPage  int
	Total    int64
}

// ListingServiceImpl implements the ListingService interface
type ListingServiceImpl struct {
	listings  listing.Repository
	workflows Workflows
	paging    Paging
}

// NewListingService creates a new listing service
func NewListingService(listings listing.Repository, workflows Workflows, paging Paging) ListingService {
	return &ListingServiceImpl{
		listings:  listings,
		workflows: workflows,
		paging:    paging,
	}
}

// Search rejects inverted price ranges and returns an empty page rather than nil listings
func (s *ListingServiceImpl) Search(ctx context.Context, q SearchQuery) (*ListingPage, error) {
	var v shared.Validator
	v.Check(q.MinPrice >= 0, "min_price", "must not be negative")
	v.Check(q.MaxPrice >= 0, "max_price", "must not be negative")
	v.Check(q.MaxPrice == 0 || q.MinPrice <= q.MaxPrice, "max_price", "must not be lower than min_price")
	v.Check(q.MinBedrooms >= 0, "bedrooms", "must not be negative")
	if err := v.Err(); err != nil {
		return nil, err
	}

	page, perPage := s.paging.normalize(q.Page, q.PerPage)
	listings, total, err := s.listings.Search(ctx, listing.SearchFilter{
		Term:        strings.TrimSpace(q.Term),
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		MinBedrooms: q.MinBedrooms,
		Limit:       perPage,
		Offset:      offset(page, perPage),
	})
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []*listing.Listing{}
	}

	return &ListingPage{Listings: listings, Page: page, PerPage: perPage, Total: total}, nil
}

func (s *ListingServiceImpl) Get(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	return s.listings.GetByID(ctx, id)
}

func (s *ListingServiceImpl) ListMine(ctx context.Context, caller shared.Caller) ([]*listing.Listing, error) {
	if err := caller.Require(shared.RoleOwner); err != nil {
		return nil, err
	}
	listings, err := s.listings.ListByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []*listing.Listing{}
	}
	return listings, nil
}

func (s *ListingServiceImpl) Publish(ctx context.Context, caller shared.Caller, draft listing.Draft) (*workflow.ListingResult, error) {
	return s.workflows.PublishListing(ctx, caller, draft)
}

func (s *ListingServiceImpl) Deactivate(ctx context.Context, caller shared.Caller, id uuid.UUID) (*workflow.ListingResult, error) {
	return s.workflows.DeactivateListing(ctx, caller, id)
}

func (s *ListingServiceImpl) Reactivate(ctx context.Context, caller shared.Caller, id uuid.UUID) (*workflow.ListingResult, error) {
	return s.workflows.ReactivateListing(ctx, caller, id)
}
