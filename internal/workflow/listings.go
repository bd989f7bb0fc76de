package workflow

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/account"
	"github.com/asc-rental-marketplace/internal/domain/activity"
	"github.com/asc-rental-marketplace/internal/domain/ledger"
	"github.com/asc-rental-marketplace/internal/domain/listing"
	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// ListingResult is a listing after a paid or free lifecycle transition
type ListingResult struct {
	Listing *listing.Listing `json:"listing"`
	Entry   *ledger.Entry    `json:"ledger_entry,omitempty"`
}

// PublishListing debits the publish cost and creates an AVAILABLE listing
func (e *Engine) PublishListing(ctx context.Context, caller shared.Caller, draft listing.Draft) (*ListingResult, error) {
	if err := caller.Require(shared.RoleOwner); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	logger := e.loggerFor(caller, "publish_listing")

	var result *ListingResult
	err := e.runner.InTx(ctx, func(ctx context.Context, s Stores) error {
		if err := requireOwnerProfile(ctx, s, caller.UserID); err != nil {
			return err
		}

		now := e.clock()
		l := listing.NewListing(caller.UserID, draft, now)

		entry, err := e.ledger.debit(ctx, s, posting{
			ownerID:       caller.UserID,
			kind:          ledger.KindPublish,
			amount:        account.PublishCost,
			description:   ledger.PublishDescription(l.Title),
			reference:     l.ID.String(),
			correlationID: caller.CorrelationID,
			at:            now,
		})
		if err != nil {
			return ownerAccountErr(err)
		}

		if err := s.Listings.Create(ctx, l); err != nil {
			return err
		}

		event := activity.NewEvent(activity.TypeListingPublished, caller.UserID, caller.UserID, l.ID.String(), caller.CorrelationID, now).
			WithDetail("title", l.Title)
		event.Ledger = entry
		if err := e.events.record(ctx, s, event, now); err != nil {
			return err
		}

		result = &ListingResult{Listing: l, Entry: entry}
		return nil
	})
	if err != nil {
		logger.Info("Publish listing failed", "error", err)
		return nil, err
	}

	logger.Info("Listing published", "listing_id", result.Listing.ID.String(), "balance_after", result.Entry.BalanceAfter)
	return result, nil
}

// DeactivateListing takes a listing off the market. It costs nothing and is a no-op on an
// UNAVAILABLE listing; the event is still recorded so the owner's feed shows the request.
func (e *Engine) DeactivateListing(ctx context.Context, caller shared.Caller, listingID uuid.UUID) (*ListingResult, error) {
	if err := caller.Require(shared.RoleOwner); err != nil {
		return nil, err
	}
	logger := e.loggerFor(caller, "deactivate_listing")

	var result *ListingResult
	err := e.runner.InTx(ctx, func(ctx context.Context, s Stores) error {
		l, err := lockOwnedListing(ctx, s, caller, listingID)
		if err != nil {
			return err
		}

		now := e.clock()
		changed := l.Deactivate(now)
		if changed {
			if err := s.Listings.UpdateStatus(ctx, l); err != nil {
				return err
			}
		}

		event := activity.NewEvent(activity.TypeListingDeactivated, caller.UserID, caller.UserID, l.ID.String(), caller.CorrelationID, now).
			WithDetail("title", l.Title).
			WithDetail("changed", strconv.FormatBool(changed))
		if err := e.events.record(ctx, s, event, now); err != nil {
			return err
		}

		result = &ListingResult{Listing: l}
		return nil
	})
	if err != nil {
		logger.Info("Deactivate listing failed", "listing_id", listingID.String(), "error", err)
		return nil, err
	}

	logger.Info("Listing deactivated", "listing_id", listingID.String())
	return result, nil
}

// ReactivateListing debits the reactivation cost and puts an UNAVAILABLE listing back on the market.
// The listing row stays locked for the whole transaction so two concurrent reactivations cannot both pay.
func (e *Engine) ReactivateListing(ctx context.Context, caller shared.Caller, listingID uuid.UUID) (*ListingResult, error) {
	if err := caller.Require(shared.RoleOwner); err != nil {
		return nil, err
	}
	logger := e.loggerFor(caller, "reactivate_listing")

	var result *ListingResult
	err := e.runner.InTx(ctx, func(ctx context.Context, s Stores) error {
		l, err := lockOwnedListing(ctx, s, caller, listingID)
		if err != nil {
			return err
		}

		now := e.clock()
		if err := l.Reactivate(now); err != nil {
			return err
		}

		entry, err := e.ledger.debit(ctx, s, posting{
			ownerID:       caller.UserID,
			kind:          ledger.KindReactivate,
			amount:        account.ReactivationCost,
			description:   ledger.ReactivateDescription(l.Title),
			reference:     l.ID.String(),
			correlationID: caller.CorrelationID,
			at:            now,
		})
		if err != nil {
			return ownerAccountErr(err)
		}

		if err := s.Listings.UpdateStatus(ctx, l); err != nil {
			return err
		}

		event := activity.NewEvent(activity.TypeListingReactivated, caller.UserID, caller.UserID, l.ID.String(), caller.CorrelationID, now).
			WithDetail("title", l.Title)
		event.Ledger = entry
		if err := e.events.record(ctx, s, event, now); err != nil {
			return err
		}

		result = &ListingResult{Listing: l, Entry: entry}
		return nil
	})
	if err != nil {
		logger.Info("Reactivate listing failed", "listing_id", listingID.String(), "error", err)
		return nil, err
	}

	logger.Info("Listing reactivated", "listing_id", listingID.String(), "balance_after", result.Entry.BalanceAfter)
	return result, nil
}

func lockOwnedListing(ctx context.Context, s Stores, caller shared.Caller, id uuid.UUID) (*listing.Listing, error) {
	l, err := s.Listings.LockForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.IsOwnedBy(caller.UserID) {
		return nil, shared.ErrForbidden{Reason: "listing belongs to another owner"}
	}
	return l, nil
}

// requireOwnerProfile turns a missing owner profile into Forbidden: the token says OWNER
// but the identity never registered as one.
func requireOwnerProfile(ctx context.Context, s Stores, userID string) error {
	if _, err := s.Owners.GetByUserID(ctx, userID); err != nil {
		if errors.Is(err, shared.ErrNotFound{}) {
			return shared.ErrForbidden{Reason: "caller has no owner profile"}
		}
		return err
	}
	return nil
}

// ownerAccountErr maps a missing account to Forbidden; every registered owner has one
func ownerAccountErr(err error) error {
	if errors.Is(err, shared.ErrNotFound{}) {
		return shared.ErrForbidden{Reason: "caller has no coin account"}
	}
	return err
}
