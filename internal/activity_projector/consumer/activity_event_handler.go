package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/asc-rental-marketplace/internal/activity_projector/service"
	"github.com/asc-rental-marketplace/internal/domain/activity"
	"github.com/asc-rental-marketplace/internal/platform/messaging/producers"
)

// ActivityEventHandler handles activity events consumed from Kafka
type ActivityEventHandler struct {
	projectionService service.ProjectionService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewActivityEventHandler creates a new handler
func NewActivityEventHandler(
	logger *slog.Logger,
	projectionService service.ProjectionService,
	producer producers.DeadLetterPublisher,
) *ActivityEventHandler {
	return &ActivityEventHandler{
		projectionService: projectionService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage projects one Kafka message. Messages that can never be projected are parked in
// the DLQ and acknowledged; projection failures are returned so the offset stays uncommitted.
func (h *ActivityEventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event activity.Event
	err := json.Unmarshal(msg.Value, &event)
	if err == nil {
		err = event.Validate()
	}
	if err != nil {
		reason := "Failed to decode activity event from Kafka message"
		h.logger.Error(reason,
			"error", err,
			"message_key", string(msg.Key),
			"offset", msg.Offset,
		)
		return h.deadLetter(ctx, msg, fmt.Sprintf("%s: %s", reason, err.Error()), err)
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received activity event",
		"event_id", event.EventID,
		"type", event.Type,
		"owner_id", event.OwnerID,
	)

	if err := h.projectionService.Project(ctx, &event); err != nil {
		logger.Error("Failed to project activity event", "event_id", event.EventID, "error", err)
		return fmt.Errorf("projecting event %s failed: %w", event.EventID, err)
	}

	return nil
}

// deadLetter acknowledges msg once it is parked; when parking fails the original error is
// returned so Kafka redelivers it
func (h *ActivityEventHandler) deadLetter(ctx context.Context, msg kafka.Message, reason string, cause error) error {
	if h.producer != nil {
		dlqErr := h.producer.PublishToDLQ(ctx, producers.DeadLetter{
			Key:       string(msg.Key),
			Value:     msg.Value,
			Reason:    reason,
			Topic:     msg.Topic,
			Partition: msg.Partition,
			Offset:    msg.Offset,
		})
		if dlqErr == nil {
			h.logger.Info("Published unprocessable message to DLQ", "message_key", string(msg.Key), "reason", reason)
			return nil
		}
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", dlqErr,
			"original_error", cause,
			"message_key", string(msg.Key),
		)
	}
	return fmt.Errorf("failed to decode message value: %w", cause)
}
