package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind classifies what caused a balance change
type Kind string

const (
	KindPublish        Kind = "PUBLISH"
	KindReactivate     Kind = "REACTIVATE"
	KindPurchaseCredit Kind = "PURCHASE_CREDIT"
)

// Entry is one immutable line of an owner's ASC history. Amount is negative for debits.
type Entry struct {
	ID            uuid.UUID `json:"id" bson:"id"`
	OwnerID       string    `json:"owner_id" bson:"owner_id"`
	Kind          Kind      `json:"kind" bson:"kind"`
	Amount        int64     `json:"amount" bson:"amount"`
	Description   string    `json:"description" bson:"description"`
	Reference     string    `json:"reference,omitempty" bson:"reference,omitempty"` // Listing or purchase the entry pays for
	BalanceAfter  int64     `json:"balance_after" bson:"balance_after"`
	CorrelationID string    `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

func NewEntry(ownerID string, kind Kind, amount int64, description, reference string, balanceAfter int64, correlationID string, now time.Time) *Entry {
	return &Entry{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Kind:          kind,
		Amount:        amount,
		Description:   description,
		Reference:     reference,
		BalanceAfter:  balanceAfter,
		CorrelationID: correlationID,
		CreatedAt:     now,
	}
}

func PublishDescription(title string) string {
	return "Listing published: " + title
}

func ReactivateDescription(title string) string {
	return "Listing reactivated: " + title
}

func PurchaseCreditDescription(coins int64) string {
	return fmt.Sprintf("Credit of %d ASC after purchase.", coins)
}
