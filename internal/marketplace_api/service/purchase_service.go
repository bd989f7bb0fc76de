package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/purchase"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/workflow"
)

// PurchaseServiceImpl implements the PurchaseService interface
type PurchaseServiceImpl struct {
	purchases purchase.Repository
	workflows Workflows
}

func NewPurchaseService(purchases purchase.Repository, workflows Workflows) PurchaseService {
	return &PurchaseServiceImpl{
		purchases: purchases,
		workflows: workflows,
	}
}

func (s *PurchaseServiceImpl) Initiate(ctx context.Context, caller shared.Caller, req purchase.Request) (*purchase.Purchase, error) {
	return s.workflows.InitiatePurchase(ctx, caller, req)
}

func (s *PurchaseServiceImpl) Confirm(ctx context.Context, caller shared.Caller, id uuid.UUID) (*workflow.PurchaseConfirmation, error) {
	return s.workflows.ConfirmPurchase(ctx, caller, id)
}

// ListMine returns an empty list to clients and admins: only owners buy coins
func (s *PurchaseServiceImpl) ListMine(ctx context.Context, caller shared.Caller) ([]*purchase.Purchase, error) {
	if caller.Role != shared.RoleOwner {
		return []*purchase.Purchase{}, nil
	}
	return nonNil(s.purchases.ListByOwner(ctx, caller.UserID))
}

func (s *PurchaseServiceImpl) ListPending(ctx context.Context, caller shared.Caller) ([]*purchase.Purchase, error) {
	if err := caller.Require(shared.RoleAdmin); err != nil {
		return nil, err
	}
	return nonNil(s.purchases.ListPending(ctx))
}

func nonNil[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
