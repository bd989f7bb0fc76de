package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// EventPublisher writes already-encoded events to the events topic
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload []byte, headers map[string]string) error
	Close() error
}

// DeadLetterPublisher parks messages the consumer cannot process
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, letter DeadLetter) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TopicAdmin is the subset of kafka.Conn used to provision topics
type TopicAdmin interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}
