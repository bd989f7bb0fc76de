package purchase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// Status of a coin purchase. CONFIRMED is terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
)

type Purchase struct {
	ID                uuid.UUID  `json:"id"`
	OwnerID           string     `json:"owner_id"`
	PackageID         string     `json:"package_id"`
	Status            Status     `json:"status"`
	ProofOfPaymentURL string     `json:"proof_of_payment_url"`
	CreatedAt         time.Time  `json:"created_at"`
	ConfirmedAt       *time.Time `json:"confirmed_at,omitempty"`
	Package           *Package   `json:"package,omitempty"`
}

// Request is an owner's claim that they paid for a package
type Request struct {
	PackageID         string
	ProofOfPaymentURL string
}

func (r Request) Validate() error {
	var v shared.Validator
	v.Check(strings.TrimSpace(r.PackageID) != "", "package_id", "is required")
	v.Check(shared.IsHTTPURL(r.ProofOfPaymentURL), "proof_of_payment_url", "must be an absolute http(s) URL")
	return v.Err()
}

func NewPurchase(ownerID string, r Request, now time.Time) *Purchase {
	return &Purchase{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		PackageID:         strings.TrimSpace(r.PackageID),
		Status:            StatusPending,
		ProofOfPaymentURL: r.ProofOfPaymentURL,
		CreatedAt:         now,
	}
}
