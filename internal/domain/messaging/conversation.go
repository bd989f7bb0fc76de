package messaging

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/shared"
)

const MaxMessageLength = 500

// Conversation is keyed by a listing and an unordered pair of users.
// The pair is stored sorted so ParticipantA < ParticipantB.
type Conversation struct {
	ID            uuid.UUID `json:"id"`
	PropertyID    uuid.UUID `json:"property_id"`
	ParticipantA  string    `json:"participant_a"`
	ParticipantB  string    `json:"participant_b"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	PropertyTitle string    `json:"property_title,omitempty"`
	LastMessage   *Message  `json:"last_message,omitempty"`
}

type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Text           string    `json:"text"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// SortedPair orders two participant ids
func SortedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

func NewConversation(propertyID uuid.UUID, userA, userB string, now time.Time) *Conversation {
	a, b := SortedPair(userA, userB)
	return &Conversation{
		ID:           uuid.New(),
		PropertyID:   propertyID,
		ParticipantA: a,
		ParticipantB: b,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (c *Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.ParticipantA == userID || c.ParticipantB == userID)
}

// ValidateText checks a message body is 1..500 characters once surrounding blanks are removed
func ValidateText(text string) error {
	trimmed := strings.TrimSpace(text)
	var v shared.Validator
	v.Check(trimmed != "", "text", "must not be empty")
	v.Check(utf8.RuneCountInString(trimmed) <= MaxMessageLength, "text", "must be at most 500 characters")
	return v.Err()
}

func NewMessage(conversationID uuid.UUID, senderID, text string, now time.Time) *Message {
	return &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           strings.TrimSpace(text),
		IsRead:         false,
		CreatedAt:      now,
	}
}
