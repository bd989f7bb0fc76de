package activity

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/ledger"
)

// Type names a state change worth telling an owner or admin about
type Type string

const (
	TypeListingPublished      Type = "LISTING_PUBLISHED"
	TypeListingDeactivated    Type = "LISTING_DEACTIVATED"
	TypeListingReactivated    Type = "LISTING_REACTIVATED"
	TypePurchaseRequested     Type = "PURCHASE_REQUESTED"
	TypePurchaseConfirmed     Type = "PURCHASE_CONFIRMED"
	TypeVerificationSubmitted Type = "VERIFICATION_SUBMITTED"
	TypeVerificationConfirmed Type = "VERIFICATION_CONFIRMED"
)

func (t Type) Valid() bool {
	switch t {
	case TypeListingPublished, TypeListingDeactivated, TypeListingReactivated,
		TypePurchaseRequested, TypePurchaseConfirmed,
		TypeVerificationSubmitted, TypeVerificationConfirmed:
		return true
	}
	return false
}

// Event is written to the outbox by a workflow, published to Kafka, and projected into MongoDB.
// OwnerID is the aggregate key: all events of one owner land on the same partition.
type Event struct {
	EventID       string            `json:"event_id" bson:"event_id"`
	Type          Type              `json:"type" bson:"type"`
	OwnerID       string            `json:"owner_id" bson:"owner_id"`
	ActorID       string            `json:"actor_id" bson:"actor_id"`
	SubjectID     string            `json:"subject_id" bson:"subject_id"`
	OccurredAt    time.Time         `json:"occurred_at" bson:"occurred_at"`
	CorrelationID string            `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Ledger        *ledger.Entry     `json:"ledger,omitempty" bson:"ledger,omitempty"`
	Details       map[string]string `json:"details,omitempty" bson:"details,omitempty"`
}

func NewEvent(t Type, ownerID, actorID, subjectID, correlationID string, now time.Time) *Event {
	return &Event{
		EventID:       uuid.NewString(),
		Type:          t,
		OwnerID:       ownerID,
		ActorID:       actorID,
		SubjectID:     subjectID,
		OccurredAt:    now,
		CorrelationID: correlationID,
	}
}

// WithDetail sets one detail and returns the event for chaining
func (e *Event) WithDetail(key, value string) *Event {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Validate rejects events the projector cannot store
func (e *Event) Validate() error {
	var errs []error
	if e.EventID == "" {
		errs = append(errs, errors.New("event_id is required"))
	}
	if !e.Type.Valid() {
		errs = append(errs, errors.New("unknown event type: "+string(e.Type)))
	}
	if e.OwnerID == "" {
		errs = append(errs, errors.New("owner_id is required"))
	}
	if e.OccurredAt.IsZero() {
		errs = append(errs, errors.New("occurred_at is required"))
	}
	return errors.Join(errs...)
}
