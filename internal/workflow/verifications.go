package workflow

import (
	"context"
	"errors"

	"github.com/asc-rental-marketplace/internal/domain/activity"
	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// InitiateVerification stores the owner's documents and moves verification to PENDING
func (e *Engine) InitiateVerification(ctx context.Context, caller shared.Caller, sub owner.VerificationSubmission) (*owner.Owner, error) {
	if err := caller.Require(shared.RoleOwner); err != nil {
		return nil, err
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	logger := e.loggerFor(caller, "initiate_verification")

	var result *owner.Owner
	err := e.runner.InTx(ctx, func(ctx context.Context, s Stores) error {
		o, err := s.Owners.LockForUpdate(ctx, caller.UserID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound{}) {
				return shared.ErrForbidden{Reason: "caller has no owner profile"}
			}
			return err
		}

		previous := o.VerificationStatus
		now := e.clock()
		if err := o.SubmitVerification(sub, now, e.opts.AllowReverification); err != nil {
			return err
		}

		if err := s.Owners.SaveVerificationSubmission(ctx, o); err != nil {
			return err
		}

		event := activity.NewEvent(activity.TypeVerificationSubmitted, caller.UserID, caller.UserID, caller.UserID, caller.CorrelationID, now).
			WithDetail("previous_status", string(previous))
		if err := e.events.record(ctx, s, event, now); err != nil {
			return err
		}

		result = o
		return nil
	})
	if err != nil {
		logger.Info("Initiate verification failed", "error", err)
		return nil, err
	}

	logger.Info("Verification submitted")
	return result, nil
}

// ConfirmVerification approves a PENDING verification. Like purchases, the transition is a
// conditional update so a status other than PENDING is reported instead of overwritten.
func (e *Engine) ConfirmVerification(ctx context.Context, caller shared.Caller, ownerID string) (*owner.Owner, error) {
	if err := caller.Require(shared.RoleAdmin); err != nil {
		return nil, err
	}
	logger := e.loggerFor(caller, "confirm_verification")

	var result *owner.Owner
	err := e.runner.InTx(ctx, func(ctx context.Context, s Stores) error {
		now := e.clock()

		confirmed, err := s.Owners.ConfirmVerification(ctx, ownerID, now)
		if err != nil {
			return err
		}

		o, err := s.Owners.GetByUserID(ctx, ownerID)
		if err != nil {
			return err
		}
		if !confirmed {
			return shared.ErrInvalidState{Entity: "verification", Current: string(o.VerificationStatus), Action: "confirm"}
		}

		event := activity.NewEvent(activity.TypeVerificationConfirmed, ownerID, caller.UserID, ownerID, caller.CorrelationID, now)
		if err := e.events.record(ctx, s, event, now); err != nil {
			return err
		}

		result = o
		return nil
	})
	if err != nil {
		logger.Info("Confirm verification failed", "owner_id", ownerID, "error", err)
		return nil, err
	}

	logger.Info("Verification confirmed", "owner_id", ownerID)
	return result, nil
}
