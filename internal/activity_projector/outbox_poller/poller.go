package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/asc-rental-marketplace/internal/config"
	"github.com/asc-rental-marketplace/internal/domain/outbox"
	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// Poller relays pending outbox messages to the event bus
type Poller struct {
	outboxRepo       outbox.Repository
	relay            EventRelay
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	cfg *config.OutboxConfig,
	outboxRepo outbox.Repository,
	relay EventRelay,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		outboxRepo:       outboxRepo,
		relay:            relay,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting Outbox Poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox Poller stopping due to context cancellation.")
			return
		case <-ticker.C:
			p.logger.Debug("Outbox Poller tick: processing pending messages")
			if err := p.processPendingMessages(ctx); err != nil {
				p.logger.Error("Error during batch processing of pending outbox messages", "error", err)
			}
		}
	}
}

// processPendingMessages relays one batch in id order. A failed row does not stop the batch.
func (p *Poller) processPendingMessages(ctx context.Context) error {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox messages: %w", err)
	}

	if len(messages) == 0 {
		p.logger.Debug("No pending outbox messages found.")
		return nil
	}

	p.logger.Info("Fetched pending outbox messages", "count", len(messages))

	for _, msg := range messages {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		logger := p.logger.With("outbox_id", msg.ID, "event_id", msg.EventID)

		err := p.relay.Relay(ctx, msg)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrUndeliverable) {
			logger.Warn("Skipping undeliverable outbox message", "error", err)
			continue
		}

		logger.Error("Failed to relay outbox message", "current_attempts", msg.Attempts, "error", err)

		if errInc := p.outboxRepo.IncrementAttempts(ctx, msg.ID); errInc != nil {
			logger.Error("Failed to increment attempts for outbox message", "error", errInc)
			continue
		}

		if msg.Attempts+1 >= p.maxRetryAttempts {
			logger.Warn("Max retry attempts reached for outbox message, marking as FAILED_TO_PUBLISH",
				"attempts_made", msg.Attempts+1,
			)
			if errUpdate := p.outboxRepo.UpdateStatus(ctx, msg.ID, shared.OutboxStatusFailedToPublish); errUpdate != nil {
				logger.Error("Failed to update outbox status to FAILED_TO_PUBLISH after max retries", "error", errUpdate)
			}
		}
	}
	return nil
}
