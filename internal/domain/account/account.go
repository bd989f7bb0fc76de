package account

import (
	"errors"
	"time"

	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// Coin prices of the listing lifecycle, in ASC
const (
	PublishCost      int64 = 10
	ReactivationCost int64 = 5
)

var ErrInvalidAmount = errors.New("amount must be positive")

// Account holds the ASC balance of one owner
type Account struct {
	OwnerID   string    `json:"owner_id"`
	Balance   int64     `json:"balance"`
	Version   int       `json:"version"` // For optimistic locking
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccount opens an empty account for a freshly registered owner
func NewAccount(ownerID string, now time.Time) *Account {
	return &Account{
		OwnerID:   ownerID,
		Balance:   0,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Credit adds amount coins to the balance
func (a *Account) Credit(amount int64, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	a.Balance += amount
	a.UpdatedAt = now
	a.Version++
	return nil
}

// Debit removes amount coins from the balance. The account is left untouched on failure.
func (a *Account) Debit(amount int64, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if !a.CanDebit(amount) {
		return shared.ErrInsufficientBalance{OwnerID: a.OwnerID, Balance: a.Balance, Required: amount}
	}

	a.Balance -= amount
	a.UpdatedAt = now
	a.Version++
	return nil
}

func (a *Account) CanDebit(amount int64) bool {
	return a.Balance >= amount
}
