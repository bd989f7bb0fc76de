package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/account"
	"github.com/asc-rental-marketplace/internal/domain/activity"
	"github.com/asc-rental-marketplace/internal/domain/favorite"
	"github.com/asc-rental-marketplace/internal/domain/ledger"
	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/domain/user"
)

// Profile is a user with the role profile attached to it. Exactly one of Owner and Client is
// set for owners and clients; admins have neither.
type Profile struct {
	User        *user.User
	Owner       *owner.Owner
	Balance     *int64
	Client      *user.Client
	FavoriteIDs []uuid.UUID
}

// ProfileServiceImpl implements the ProfileService interface
type ProfileServiceImpl struct {
	users     user.Repository
	owners    owner.Repository
	accounts  account.Repository
	ledger    ledger.Repository
	favorites favorite.Repository
	activity  ActivityReader
	workflows Workflows
	paging    Paging
	feedLimit int
}

// ProfileDeps groups the stores ProfileServiceImpl reads from
type ProfileDeps struct {
	Users     user.Repository
	Owners    owner.Repository
	Accounts  account.Repository
	Ledger    ledger.Repository
	Favorites favorite.Repository
	Activity  ActivityReader
}

func NewProfileService(deps ProfileDeps, workflows Workflows, paging Paging, feedLimit int) ProfileService {
	return &ProfileServiceImpl{
		users:     deps.Users,
		owners:    deps.Owners,
		accounts:  deps.Accounts,
		ledger:    deps.Ledger,
		favorites: deps.Favorites,
		activity:  deps.Activity,
		workflows: workflows,
		paging:    paging,
		feedLimit: feedLimit,
	}
}

func (s *ProfileServiceImpl) Register(ctx context.Context, caller shared.Caller, reg user.Registration) (*user.User, error) {
	return s.workflows.RegisterUser(ctx, caller, reg)
}

// Update applies upd and returns the refreshed profile
func (s *ProfileServiceImpl) Update(ctx context.Context, caller shared.Caller, upd user.ProfileUpdate) (*Profile, error) {
	if _, err := s.workflows.UpdateProfile(ctx, caller, upd); err != nil {
		return nil, err
	}
	return s.GetMe(ctx, caller)
}

func (s *ProfileServiceImpl) GetMe(ctx context.Context, caller shared.Caller) (*Profile, error) {
	if caller.UserID == "" {
		return nil, shared.ErrForbidden{Reason: "unauthenticated caller"}
	}

	u, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	profile := &Profile{User: u}

	switch u.Role {
	case shared.RoleOwner:
		o, err := s.owners.GetByUserID(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load owner profile: %w", err)
		}
		acc, err := s.accounts.GetByOwnerID(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load coin account: %w", err)
		}
		profile.Owner = o
		profile.Balance = &acc.Balance
	case shared.RoleClient:
		c, err := s.users.GetClient(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load client profile: %w", err)
		}
		ids, err := nonNil(s.favorites.ListPropertyIDs(ctx, u.ID))
		if err != nil {
			return nil, err
		}
		profile.Client = c
		profile.FavoriteIDs = ids
	}

	return profile, nil
}

func (s *ProfileServiceImpl) LedgerFor(ctx context.Context, caller shared.Caller, page, perPage int) (*LedgerPage, error) {
	if err := caller.Require(shared.RoleOwner); err != nil {
		return nil, err
	}
	page, perPage = s.paging.normalize(page, perPage)

	total, err := s.ledger.CountByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	entries, err := nonNil(s.ledger.ListByOwner(ctx, caller.UserID, perPage, offset(page, perPage)))
	if err != nil {
		return nil, err
	}

	return &LedgerPage{Entries: entries, Page: page, PerPage: perPage, Total: total}, nil
}

// ActivityFor returns the owner's projected activity feed. Events are keyed by owner, so
// clients and admins have no personal feed.
func (s *ProfileServiceImpl) ActivityFor(ctx context.Context, caller shared.Caller, limit int) ([]*activity.Event, error) {
	if err := caller.Require(shared.RoleClient, shared.RoleOwner, shared.RoleAdmin); err != nil {
		return nil, err
	}
	if caller.Role != shared.RoleOwner {
		return []*activity.Event{}, nil
	}
	return nonNil(s.activity.ListByOwner(ctx, caller.UserID, clampLimit(limit, s.feedLimit)))
}

func clampLimit(limit, max int) int {
	if limit < 1 || limit > max {
		return max
	}
	return limit
}
