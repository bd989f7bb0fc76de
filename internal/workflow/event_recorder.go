package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/asc-rental-marketplace/internal/domain/activity"
	"github.com/asc-rental-marketplace/internal/domain/outbox"
)

// eventRecorder writes activity events to the outbox inside the workflow transaction,
// so an event exists if and only if the state change it describes was committed.
type eventRecorder struct {
	logger *slog.Logger
}

func newEventRecorder(logger *slog.Logger) *eventRecorder {
	return &eventRecorder{logger: logger}
}

func (r *eventRecorder) record(ctx context.Context, s Stores, event *activity.Event, now time.Time) error {
	msg, err := outbox.NewMessage(event, now)
	if err != nil {
		r.logger.Error("Failed to encode outbox message", "event_id", event.EventID, "error", err)
		return fmt.Errorf("failed to encode outbox message for event %s: %w", event.EventID, err)
	}

	if err := s.Outbox.Create(ctx, msg); err != nil {
		return fmt.Errorf("failed to create outbox message for event %s: %w", event.EventID, err)
	}

	r.logger.Debug("Outbox message created",
		"event_id", event.EventID,
		"event_type", string(event.Type),
		"outbox_id", msg.ID,
	)
	return nil
}
