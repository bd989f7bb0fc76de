package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines conversation and message persistence
type Repository interface {
	// FindByKey looks up a conversation by listing and sorted participant pair
	FindByKey(ctx context.Context, propertyID uuid.UUID, participantA, participantB string) (*Conversation, error)

	// CreateIfAbsent inserts unless the key already exists and reports whether a row was written
	CreateIfAbsent(ctx context.Context, conversation *Conversation) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	Touch(ctx context.Context, id uuid.UUID, updatedAt time.Time) error

	// ListForUser returns the user's conversations by most recent activity, with last message and listing title
	ListForUser(ctx context.Context, userID string) ([]*Conversation, error)

	AddMessage(ctx context.Context, message *Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*Message, error)

	// MarkRead flags every unread message not sent by readerID and returns how many changed
	MarkRead(ctx context.Context, conversationID uuid.UUID, readerID string) (int64, error)
	WithTx(tx pgx.Tx) Repository
}
