package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/asc-rental-marketplace/internal/domain/outbox"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/platform/messaging/producers"
)

// ErrUndeliverable marks outbox rows that can never be published, so retrying them is pointless
var ErrUndeliverable = errors.New("outbox message is undeliverable")

// EventRelay moves one outbox message onto the event bus
type EventRelay interface {
	Relay(ctx context.Context, message *outbox.Message) error
}

// EventRelayImpl implements EventRelay on top of a Kafka producer
type EventRelayImpl struct {
	outboxRepo outbox.Repository
	publisher  producers.EventPublisher
	logger     *slog.Logger
}

// NewEventRelay creates a new relay
func NewEventRelay(
	outboxRepo outbox.Repository,
	publisher producers.EventPublisher,
	logger *slog.Logger,
) EventRelay {
	return &EventRelayImpl{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Relay publishes the message keyed by owner id and marks the row PROCESSED.
// Rows whose payload cannot be decoded are marked FAILED_TO_PUBLISH right away.
func (r *EventRelayImpl) Relay(ctx context.Context, message *outbox.Message) error {
	event, err := message.Event()
	if err == nil {
		err = event.Validate()
	}
	if err != nil {
		r.logger.Error("Outbox payload is not a valid activity event",
			"outbox_id", message.ID, "event_id", message.EventID, "error", err,
		)
		if updateErr := r.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			r.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after decode error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("%w: outbox %d: %v", ErrUndeliverable, message.ID, err)
	}

	logger := r.logger
	if event.CorrelationID != "" {
		logger = r.logger.With("correlation_id", event.CorrelationID)
	}

	headers := map[string]string{
		"event-type": string(event.Type),
		"event-id":   event.EventID,
	}
	if event.CorrelationID != "" {
		headers["correlation-id"] = event.CorrelationID
	}

	if err := r.publisher.Publish(ctx, event.OwnerID, message.Payload, headers); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventID, err)
	}

	if err := r.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "event_id", event.EventID, "error", err,
		)
		return fmt.Errorf("event %s published, but failed to mark outbox %d as PROCESSED: %w", event.EventID, message.ID, err)
	}

	logger.Info("Outbox message published and marked as PROCESSED",
		"outbox_id", message.ID, "event_id", event.EventID, "event_type", event.Type,
	)
	return nil
}
