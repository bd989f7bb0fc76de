package service

import (
	"context"

	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/domain/shared"
)

type VerificationServiceImpl struct {
	owners    owner.Repository
	workflows Workflows
}

func NewVerificationService(owners owner.Repository, workflows Workflows) VerificationService {
	return &VerificationServiceImpl{
		owners:    owners,
		workflows: workflows,
	}
}

func (s *VerificationServiceImpl) Submit(ctx context.Context, caller shared.Caller, sub owner.VerificationSubmission) (*owner.Owner, error) {
	return s.workflows.InitiateVerification(ctx, caller, sub)
}

func (s *VerificationServiceImpl) Confirm(ctx context.Context, caller shared.Caller, ownerID string) (*owner.Owner, error) {
	return s.workflows.ConfirmVerification(ctx, caller, ownerID)
}

// ListPending returns owners waiting for review, oldest submission first
func (s *VerificationServiceImpl) ListPending(ctx context.Context, caller shared.Caller) ([]*owner.Owner, error) {
	if err := caller.Require(shared.RoleAdmin); err != nil {
		return nil, err
	}
	return nonNil(s.owners.ListPendingVerification(ctx))
}
