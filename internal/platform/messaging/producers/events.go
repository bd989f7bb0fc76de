package producers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/asc-rental-marketplace/internal/config"
)

// EventProducer publishes activity events keyed by owner id, so one owner's events
// stay ordered on a single partition.
type EventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewEventProducer creates a synchronous producer for the events topic and ensures the topic exists.
// Writes are synchronous because the outbox poller marks a row processed only after the broker acked it.
func NewEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*EventProducer, error) {
	if cfg.EventsTopic == "" {
		return nil, fmt.Errorf("kafka events topic is not configured")
	}

	if err := dialAndEnsureTopic(ctx, cfg.Brokers, cfg.EventsTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure events topic %s exists: %w", cfg.EventsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.EventsTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &EventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.EventsTopic,
	}, nil
}

func (p *EventProducer) Publish(ctx context.Context, key string, payload []byte, headers map[string]string) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
	}
	for k, v := range headers {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published event", "topic", p.topic, "key", key)
	return nil
}

func (p *EventProducer) Close() error {
	p.logger.Info("Closing events Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
