package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/asc-rental-marketplace/internal/domain/messaging"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/platform/persistence"
)

const conversationColumns = `id, property_id, participant_a, participant_b, created_at, updated_at`

// ConversationRepository implements the messaging.Repository interface for PostgreSQL
type ConversationRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewConversationRepository(logger *slog.Logger, db *persistence.PostgresDB) messaging.Repository {
	return &ConversationRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *ConversationRepository) WithTx(tx pgx.Tx) messaging.Repository {
	return &ConversationRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// FindByKey returns ErrNotFound when the pair has never talked about the listing
func (r *ConversationRepository) FindByKey(ctx context.Context, propertyID uuid.UUID, participantA, participantB string) (*messaging.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE property_id = $1 AND participant_a = $2 AND participant_b = $3
	`

	c, err := scanConversation(r.querier.QueryRow(ctx, query, propertyID, participantA, participantB))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound{Entity: "conversation", ID: propertyID.String()}
		}
		r.logger.Error("Failed to find conversation", "property_id", propertyID.String(), "error", err)
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return c, nil
}

// CreateIfAbsent relies on the (property_id, participant_a, participant_b) unique constraint
// so two first contacts racing each other end up with one conversation
func (r *ConversationRepository) CreateIfAbsent(ctx context.Context, c *messaging.Conversation) (bool, error) {
	query := `
		INSERT INTO conversations (` + conversationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (property_id, participant_a, participant_b) DO NOTHING
	`

	result, err := r.querier.Exec(ctx, query, c.ID, c.PropertyID, c.ParticipantA, c.ParticipantB, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create conversation", "property_id", c.PropertyID.String(), "error", err)
		return false, fmt.Errorf("failed to create conversation: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*messaging.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`

	c, err := scanConversation(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound{Entity: "conversation", ID: id.String()}
		}
		r.logger.Error("Failed to get conversation", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return c, nil
}

func (r *ConversationRepository) Touch(ctx context.Context, id uuid.UUID, updatedAt time.Time) error {
	result, err := r.querier.Exec(ctx, `UPDATE conversations SET updated_at = $1 WHERE id = $2`, updatedAt, id)
	if err != nil {
		r.logger.Error("Failed to touch conversation", "id", id.String(), "error", err)
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound{Entity: "conversation", ID: id.String()}
	}
	return nil
}

func (r *ConversationRepository) ListForUser(ctx context.Context, userID string) ([]*messaging.Conversation, error) {
	query := `
		SELECT c.id, c.property_id, c.participant_a, c.participant_b, c.created_at, c.updated_at, l.title,
			m.id, m.sender_id, m.text, m.is_read, m.created_at
		FROM conversations c
		JOIN listings l ON l.id = c.property_id
		LEFT JOIN LATERAL (
			SELECT id, sender_id, text, is_read, created_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC
			LIMIT 1
		) m ON TRUE
		WHERE c.participant_a = $1 OR c.participant_b = $1
		ORDER BY c.updated_at DESC
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list conversations", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]*messaging.Conversation, 0)
	for rows.Next() {
		var (
			c         messaging.Conversation
			msgID     *uuid.UUID
			sender    *string
			text      *string
			isRead    *bool
			createdAt *time.Time
		)
		if err := rows.Scan(
			&c.ID,
			&c.PropertyID,
			&c.ParticipantA,
			&c.ParticipantB,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.PropertyTitle,
			&msgID,
			&sender,
			&text,
			&isRead,
			&createdAt,
		); err != nil {
			r.logger.Error("Failed to scan conversation", "error", err)
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		if msgID != nil {
			c.LastMessage = &messaging.Message{
				ID:             *msgID,
				ConversationID: c.ID,
				SenderID:       *sender,
				Text:           *text,
				IsRead:         *isRead,
				CreatedAt:      *createdAt,
			}
		}
		conversations = append(conversations, &c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over conversations", "error", err)
		return nil, fmt.Errorf("error iterating over conversations: %w", err)
	}
	return conversations, nil
}

func (r *ConversationRepository) AddMessage(ctx context.Context, m *messaging.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, text, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.querier.Exec(ctx, query, m.ID, m.ConversationID, m.SenderID, m.Text, m.IsRead, m.CreatedAt); err != nil {
		r.logger.Error("Failed to add message", "conversation_id", m.ConversationID.String(), "error", err)
		return fmt.Errorf("failed to add message: %w", err)
	}
	return nil
}

// ListMessages returns the conversation oldest message first
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*messaging.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, text, is_read, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.querier.Query(ctx, query, conversationID)
	if err != nil {
		r.logger.Error("Failed to list messages", "conversation_id", conversationID.String(), "error", err)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*messaging.Message, 0)
	for rows.Next() {
		var m messaging.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Text, &m.IsRead, &m.CreatedAt); err != nil {
			r.logger.Error("Failed to scan message", "error", err)
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over messages", "error", err)
		return nil, fmt.Errorf("error iterating over messages: %w", err)
	}
	return messages, nil
}

func (r *ConversationRepository) MarkRead(ctx context.Context, conversationID uuid.UUID, readerID string) (int64, error) {
	query := `
		UPDATE messages
		SET is_read = TRUE
		WHERE conversation_id = $1 AND sender_id <> $2 AND NOT is_read
	`

	result, err := r.querier.Exec(ctx, query, conversationID, readerID)
	if err != nil {
		r.logger.Error("Failed to mark messages read", "conversation_id", conversationID.String(), "error", err)
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return result.RowsAffected(), nil
}

func scanConversation(row pgx.Row) (*messaging.Conversation, error) {
	var c messaging.Conversation
	err := row.Scan(&c.ID, &c.PropertyID, &c.ParticipantA, &c.ParticipantB, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
