package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/asc-rental-marketplace/internal/domain/activity"
)

const (
	// ActivityCollectionName is the name of the projected activity feed collection in MongoDB
	ActivityCollectionName = "activity_events"
)

// ActivityRepository implements the activity.Repository interface for MongoDB
type ActivityRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewActivityRepository creates a new MongoDB activity repository
func NewActivityRepository(logger *slog.Logger, db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureIndexes creates the unique event_id index that makes Upsert idempotent under
// concurrent replays, plus the feed indexes.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(ActivityCollectionName)

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "occurred_at", Value: -1}}},
	}

	if _, err := collection.Indexes().CreateMany(ctx, models); err != nil {
		r.logger.Error("Failed to create activity indexes", "error", err)
		return fmt.Errorf("failed to create activity indexes: %w", err)
	}
	return nil
}

// Upsert stores the event keyed by its event ID. Replaying the same event overwrites
// the document with identical content.
func (r *ActivityRepository) Upsert(ctx context.Context, event *activity.Event) error {
	collection := r.db.Collection(ActivityCollectionName)

	filter := bson.M{"event_id": event.EventID}
	update := bson.M{"$set": event}
	opts := options.Update().SetUpsert(true)

	if _, err := collection.UpdateOne(ctx, filter, update, opts); err != nil {
		r.logger.Error("Failed to upsert activity event",
			"event_id", event.EventID,
			"event_type", string(event.Type),
			"error", err)
		return fmt.Errorf("failed to upsert activity event: %w", err)
	}

	return nil
}

// ListByOwner returns the owner's feed, newest first
func (r *ActivityRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*activity.Event, error) {
	events, err := r.find(ctx, bson.M{"owner_id": ownerID}, limit)
	if err != nil {
		r.logger.Error("Failed to list owner activity", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to list owner activity: %w", err)
	}
	return events, nil
}

// ListRecent returns the platform-wide feed for admins, newest first
func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]*activity.Event, error) {
	events, err := r.find(ctx, bson.M{}, limit)
	if err != nil {
		r.logger.Error("Failed to list recent activity", "error", err)
		return nil, fmt.Errorf("failed to list recent activity: %w", err)
	}
	return events, nil
}

func (r *ActivityRepository) find(ctx context.Context, filter bson.M, limit int) ([]*activity.Event, error) {
	collection := r.db.Collection(ActivityCollectionName)

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}, {Key: "event_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]*activity.Event, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
