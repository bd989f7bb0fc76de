package favorite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Favorite links a client to a listing they saved
type Favorite struct {
	ClientID   string    `json:"client_id"`
	PropertyID uuid.UUID `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository defines the client favorites set
type Repository interface {
	// Add is a no-op when the pair already exists
	Add(ctx context.Context, favorite *Favorite) error

	// Remove reports whether a row was deleted
	Remove(ctx context.Context, clientID string, propertyID uuid.UUID) (bool, error)
	ListPropertyIDs(ctx context.Context, clientID string) ([]uuid.UUID, error)
	WithTx(tx pgx.Tx) Repository
}
