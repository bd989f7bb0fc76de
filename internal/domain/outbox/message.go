package outbox

import (
	"encoding/json"
	"time"

	"github.com/asc-rental-marketplace/internal/domain/activity"
	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// Message stores an activity event for reliable publishing after commit
type Message struct {
	ID            int64               `json:"id"`
	EventID       string              `json:"event_id"`
	OwnerID       string              `json:"owner_id"`
	EventType     activity.Type       `json:"event_type"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

func NewMessage(event *activity.Event, now time.Time) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:   event.EventID,
		OwnerID:   event.OwnerID,
		EventType: event.Type,
		Payload:   payload,
		Status:    shared.OutboxStatusPending,
		Attempts:  0,
		CreatedAt: now,
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// Event decodes the payload
func (m *Message) Event() (*activity.Event, error) {
	var event activity.Event
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
