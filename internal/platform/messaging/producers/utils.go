package producers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	topicReadAttempts = 5
)

var topicReadBackoff = 2 * time.Second

// ensureTopic creates topicName when no partitions can be read for it.
// Partition reads are retried because a freshly started broker may not answer metadata requests yet.
func ensureTopic(ctx context.Context, admin TopicAdmin, topicName string, numPartitions, replicationFactor int, log *slog.Logger) error {
	var (
		partitions []kafka.Partition
		err        error
	)

	log.Info("Checking if Kafka topic exists", "topic", topicName)
	for i := 0; i < topicReadAttempts; i++ {
		partitions, err = admin.ReadPartitions(topicName)
		if err == nil && len(partitions) > 0 {
			log.Info("Kafka topic already exists", "topic", topicName, "partitions", len(partitions))
			return nil
		}
		log.Warn("Failed to read partitions, retrying...", "topic", topicName, "attempt", i+1, "error", err)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(topicReadBackoff):
		}
	}

	topicConfig := kafka.TopicConfig{
		Topic:             topicName,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	}
	if topicConfig.NumPartitions <= 0 {
		topicConfig.NumPartitions = 1
	}
	if topicConfig.ReplicationFactor <= 0 {
		topicConfig.ReplicationFactor = 1
	}

	log.Info("Creating Kafka topic", "topic", topicName, "partitions", topicConfig.NumPartitions)
	if err := admin.CreateTopics(topicConfig); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topicName, err)
	}
	return nil
}

// dialAndEnsureTopic opens a short-lived admin connection to brokers
func dialAndEnsureTopic(ctx context.Context, brokers, topic string, numPartitions, replicationFactor int, log *slog.Logger) error {
	conn, err := kafka.DialContext(ctx, "tcp", brokers)
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer conn.Close()

	return ensureTopic(ctx, conn, topic, numPartitions, replicationFactor, log)
}
