package service

import (
	"context"

	"github.com/asc-rental-marketplace/internal/domain/activity"
)

// ProjectionService folds one activity event into the read model
type ProjectionService interface {
	Project(ctx context.Context, event *activity.Event) error
}

// ActivityStore is the read model the projection writes to
type ActivityStore interface {
	Upsert(ctx context.Context, event *activity.Event) error
}
