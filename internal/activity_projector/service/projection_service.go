package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/asc-rental-marketplace/internal/domain/activity"
)

type ProjectionServiceImpl struct {
	store  ActivityStore
	logger *slog.Logger
}

func NewProjectionService(store ActivityStore, logger *slog.Logger) ProjectionService {
	return &ProjectionServiceImpl{
		store:  store,
		logger: logger,
	}
}

// Project upserts the event on its event id, so redelivered events leave a single document
func (s *ProjectionServiceImpl) Project(ctx context.Context, event *activity.Event) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid activity event %s: %w", event.EventID, err)
	}

	if err := s.store.Upsert(ctx, event); err != nil {
		logger.Error("Failed to project activity event", "event_id", event.EventID, "type", event.Type, "error", err)
		return fmt.Errorf("failed to project activity event %s: %w", event.EventID, err)
	}

	logger.Info("Projected activity event",
		"event_id", event.EventID,
		"type", event.Type,
		"owner_id", event.OwnerID,
	)
	return nil
}
