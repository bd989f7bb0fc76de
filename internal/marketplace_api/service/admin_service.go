package service

import (
	"context"

	"github.com/asc-rental-marketplace/internal/domain/activity"
	"github.com/asc-rental-marketplace/internal/domain/listing"
	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/domain/purchase"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/domain/user"
)

// Stats are the back-office dashboard counters. TotalUsers counts owners and clients only.
type Stats struct {
	TotalUsers           int64
	TotalProperties      int64
	PendingVerifications int64
	PendingPurchases     int64
}

type AdminServiceImpl struct {
	users     user.Repository
	listings  listing.Repository
	owners    owner.Repository
	purchases purchase.Repository
	activity  ActivityReader
	feedLimit int
}

// AdminDeps groups the stores AdminServiceImpl reads from
type AdminDeps struct {
	Users     user.Repository
	Listings  listing.Repository
	Owners    owner.Repository
	Purchases purchase.Repository
	Activity  ActivityReader
}

func NewAdminService(deps AdminDeps, feedLimit int) AdminService {
	return &AdminServiceImpl{
		users:     deps.Users,
		listings:  deps.Listings,
		owners:    deps.Owners,
		purchases: deps.Purchases,
		activity:  deps.Activity,
		feedLimit: feedLimit,
	}
}

func (s *AdminServiceImpl) Stats(ctx context.Context, caller shared.Caller) (*Stats, error) {
	if err := caller.Require(shared.RoleAdmin); err != nil {
		return nil, err
	}

	var (
		stats Stats
		err   error
	)
	if stats.TotalUsers, err = s.users.CountByRoles(ctx, shared.RoleOwner, shared.RoleClient); err != nil {
		return nil, err
	}
	if stats.TotalProperties, err = s.listings.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingVerifications, err = s.owners.CountPendingVerification(ctx); err != nil {
		return nil, err
	}
	if stats.PendingPurchases, err = s.purchases.CountPending(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentActivity returns the latest events across all owners
func (s *AdminServiceImpl) RecentActivity(ctx context.Context, caller shared.Caller, limit int) ([]*activity.Event, error) {
	if err := caller.Require(shared.RoleAdmin); err != nil {
		return nil, err
	}
	return nonNil(s.activity.ListRecent(ctx, clampLimit(limit, s.feedLimit)))
}
