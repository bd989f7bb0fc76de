package activity

import "context"

// Repository stores the projected activity feed
type Repository interface {
	// Upsert stores the event keyed by EventID; replaying an event leaves one document
	Upsert(ctx context.Context, event *Event) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*Event, error)
	ListRecent(ctx context.Context, limit int) ([]*Event, error)
}
