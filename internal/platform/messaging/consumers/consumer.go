package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/asc-rental-marketplace/internal/config"
)

// MessageHandler processes one fetched message. Returning nil commits the offset.
type MessageHandler func(ctx context.Context, msg kafka.Message) error

// Consumer defines the message queue consumer interface
type Consumer interface {
	Subscribe(ctx context.Context, handler MessageHandler) error
	Done() <-chan struct{}
	Close() error
}

// KafkaReader wraps kafka.Reader methods for testing
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer implements Consumer using a Kafka consumer group
type KafkaConsumer struct {
	reader       KafkaReader
	logger       *slog.Logger
	topic        string
	groupID      string
	retryBackoff time.Duration
	done         chan struct{}
}

func NewKafkaConsumer(logger *slog.Logger, cfg *config.KafkaConfig) *KafkaConsumer {
	startOffset := kafka.FirstOffset
	if cfg.StartOffset == kafka.LastOffset {
		startOffset = kafka.LastOffset
	}

	return &KafkaConsumer{
		logger:  logger,
		topic:   cfg.EventsTopic,
		groupID: cfg.ConsumerGroup,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{cfg.Brokers},
			Topic:       cfg.EventsTopic,
			GroupID:     cfg.ConsumerGroup,
			MinBytes:    cfg.MinBytes,
			MaxBytes:    cfg.MaxBytes,
			MaxWait:     cfg.MaxWait,
			StartOffset: startOffset,
		}),
		retryBackoff: time.Second,
		done:         make(chan struct{}),
	}
}

// Subscribe starts the fetch loop in the background. Done is closed once the loop exits.
// A message whose handler fails is not committed, so the group redelivers it after a rebalance or restart.
func (c *KafkaConsumer) Subscribe(ctx context.Context, handler MessageHandler) error {
	c.logger.Info("Subscribed to Kafka topic", "topic", c.topic, "group_id", c.groupID)

	go func() {
		defer close(c.done)
		for {
			if ctx.Err() != nil {
				c.logger.Info("Context canceled, stopping consumer", "topic", c.topic, "group_id", c.groupID)
				return
			}

			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("Failed to fetch message from Kafka", "topic", c.topic, "error", err)
				c.sleep(ctx)
				continue
			}

			c.logger.Debug("Received message from Kafka",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"key", string(msg.Key),
			)

			if err := handler(ctx, msg); err != nil {
				c.logger.Error("Failed to process message, will not commit offset",
					"topic", msg.Topic,
					"partition", msg.Partition,
					"offset", msg.Offset,
					"key", string(msg.Key),
					"error", err,
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("Failed to commit message after successful processing",
					"topic", msg.Topic,
					"partition", msg.Partition,
					"offset", msg.Offset,
					"error", err,
				)
			}
		}
	}()

	return nil
}

func (c *KafkaConsumer) Done() <-chan struct{} {
	return c.done
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}

func (c *KafkaConsumer) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(c.retryBackoff):
	}
}
