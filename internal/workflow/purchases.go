package workflow

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/activity"
	"github.com/asc-rental-marketplace/internal/domain/ledger"
	"github.com/asc-rental-marketplace/internal/domain/purchase"
	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// PurchaseConfirmation is a confirmed purchase with the credit it caused
type PurchaseConfirmation struct {
	Purchase *purchase.Purchase `json:"purchase"`
	Credited int64              `json:"credited"`
	Entry    *ledger.Entry      `json:"ledger_entry"`
}

// InitiatePurchase records an owner's claim to have paid for a package. No coins move until an admin confirms it.
func (e *Engine) InitiatePurchase(ctx context.Context, caller shared.Caller, req purchase.Request) (*purchase.Purchase, error) {
	if err := caller.Require(shared.RoleOwner); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	logger := e.loggerFor(caller, "initiate_purchase")

	var result *purchase.Purchase
	err := e.runner.InTx(ctx, func(ctx context.Context, s Stores) error {
		if err := requireOwnerProfile(ctx, s, caller.UserID); err != nil {
			return err
		}

		now := e.clock()
		p := purchase.NewPurchase(caller.UserID, req, now)

		pkg, err := s.Packages.GetByID(ctx, p.PackageID)
		if err != nil {
			return err
		}

		if err := s.Purchases.Create(ctx, p); err != nil {
			return err
		}
		p.Package = pkg

		event := activity.NewEvent(activity.TypePurchaseRequested, caller.UserID, caller.UserID, p.ID.String(), caller.CorrelationID, now).
			WithDetail("package_id", pkg.ID).
			WithDetail("coins", strconv.FormatInt(pkg.Coins, 10))
		if err := e.events.record(ctx, s, event, now); err != nil {
			return err
		}

		result = p
		return nil
	})
	if err != nil {
		logger.Info("Initiate purchase failed", "package_id", req.PackageID, "error", err)
		return nil, err
	}

	logger.Info("Purchase requested", "purchase_id", result.ID.String(), "package_id", result.PackageID)
	return result, nil
}

// ConfirmPurchase moves a PENDING purchase to CONFIRMED and credits the package coins exactly once.
// The transition is a conditional update on status, so of two concurrent confirmations only the one
// whose update matched a row credits the account; the other gets ErrAlreadyProcessed.
func (e *Engine) ConfirmPurchase(ctx context.Context, caller shared.Caller, purchaseID uuid.UUID) (*PurchaseConfirmation, error) {
	if err := caller.Require(shared.RoleAdmin); err != nil {
		return nil, err
	}
	logger := e.loggerFor(caller, "confirm_purchase")

	var result *PurchaseConfirmation
	err := e.runner.InTx(ctx, func(ctx context.Context, s Stores) error {
		now := e.clock()

		p, confirmed, err := s.Purchases.ConfirmPending(ctx, purchaseID, now)
		if err != nil {
			return err
		}
		if !confirmed {
			return unconfirmedPurchaseErr(ctx, s, purchaseID)
		}

		pkg, err := s.Packages.GetByID(ctx, p.PackageID)
		if err != nil {
			return err
		}
		p.Package = pkg

		entry, err := e.ledger.credit(ctx, s, posting{
			ownerID:       p.OwnerID,
			kind:          ledger.KindPurchaseCredit,
			amount:        pkg.Coins,
			description:   ledger.PurchaseCreditDescription(pkg.Coins),
			reference:     p.ID.String(),
			correlationID: caller.CorrelationID,
			at:            now,
		})
		if err != nil {
			return err
		}

		event := activity.NewEvent(activity.TypePurchaseConfirmed, p.OwnerID, caller.UserID, p.ID.String(), caller.CorrelationID, now).
			WithDetail("package_id", pkg.ID).
			WithDetail("coins", strconv.FormatInt(pkg.Coins, 10))
		event.Ledger = entry
		if err := e.events.record(ctx, s, event, now); err != nil {
			return err
		}

		result = &PurchaseConfirmation{Purchase: p, Credited: pkg.Coins, Entry: entry}
		return nil
	})
	if err != nil {
		logger.Info("Confirm purchase failed", "purchase_id", purchaseID.String(), "error", err)
		return nil, err
	}

	logger.Info("Purchase confirmed",
		"purchase_id", purchaseID.String(),
		"owner_id", result.Purchase.OwnerID,
		"credited", result.Credited,
		"balance_after", result.Entry.BalanceAfter,
	)
	return result, nil
}

// unconfirmedPurchaseErr tells an unknown purchase apart from one somebody else confirmed first
func unconfirmedPurchaseErr(ctx context.Context, s Stores, id uuid.UUID) error {
	p, err := s.Purchases.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound{}) {
			return shared.ErrNotFound{Entity: "purchase", ID: id.String()}
		}
		return err
	}
	return shared.ErrAlreadyProcessed{Entity: "purchase", ID: p.ID.String()}
}
