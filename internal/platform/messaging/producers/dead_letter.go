package producers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/asc-rental-marketplace/internal/config"
)

// ErrDLQDisabled is returned when no DLQ topic is configured
var ErrDLQDisabled = errors.New("DLQ producer not initialized")

// DeadLetter describes a message the consumer gave up on
type DeadLetter struct {
	Key       string
	Value     []byte
	Reason    string
	Topic     string
	Partition int
	Offset    int64
}

type deadLetterPayload struct {
	OriginalKey       string `json:"original_key"`
	OriginalValue     string `json:"original_value"`
	OriginalTopic     string `json:"original_topic,omitempty"`
	OriginalPartition int    `json:"original_partition"`
	OriginalOffset    int64  `json:"original_offset"`
	DLQReason         string `json:"dlq_reason"`
	Timestamp         string `json:"timestamp"`
}

type DLQProducer struct {
	logger   *slog.Logger
	writer   KafkaWriter
	dlqTopic string
	now      func() time.Time
}

// NewDLQProducer returns a producer with a nil writer when cfg.DLQTopic is empty; publishing then
// fails with ErrDLQDisabled so the consumer leaves the offset uncommitted.
func NewDLQProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*DLQProducer, error) {
	p := &DLQProducer{logger: logger, dlqTopic: cfg.DLQTopic, now: time.Now}
	if cfg.DLQTopic == "" {
		logger.Info("DLQ topic is not configured, dead letters are disabled")
		return p, nil
	}

	if err := dialAndEnsureTopic(ctx, cfg.Brokers, cfg.DLQTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure DLQ topic %s exists: %w", cfg.DLQTopic, err)
	}

	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.DLQTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}
	return p, nil
}

func (p *DLQProducer) PublishToDLQ(ctx context.Context, letter DeadLetter) error {
	if p.writer == nil {
		p.logger.Warn("DLQ disabled, cannot park message", "key", letter.Key, "reason", letter.Reason)
		return ErrDLQDisabled
	}

	value, err := json.Marshal(deadLetterPayload{
		OriginalKey:       letter.Key,
		OriginalValue:     string(letter.Value),
		OriginalTopic:     letter.Topic,
		OriginalPartition: letter.Partition,
		OriginalOffset:    letter.Offset,
		DLQReason:         letter.Reason,
		Timestamp:         p.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal DLQ message: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(letter.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "dlq-reason", Value: []byte(letter.Reason)},
			{Key: "original-offset", Value: []byte(strconv.FormatInt(letter.Offset, 10))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message to DLQ",
			"topic", p.dlqTopic,
			"key", letter.Key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to DLQ %s: %w", p.dlqTopic, err)
	}

	p.logger.Info("Parked message in DLQ",
		"topic", p.dlqTopic,
		"key", letter.Key,
		"reason", letter.Reason,
	)
	return nil
}

func (p *DLQProducer) Close() error {
	if p.writer == nil {
		return nil
	}
	p.logger.Info("Closing DLQ Kafka producer", "topic", p.dlqTopic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close dlq kafka writer for topic %s: %w", p.dlqTopic, err)
	}
	return nil
}
