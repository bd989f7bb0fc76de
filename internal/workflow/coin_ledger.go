package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/asc-rental-marketplace/internal/domain/account"
	"github.com/asc-rental-marketplace/internal/domain/ledger"
	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// coinLedger is the only writer of account balances. Every balance change it makes is
// paired with exactly one ledger entry in the same transaction.
type coinLedger struct {
	logger *slog.Logger
}

func newCoinLedger(logger *slog.Logger) *coinLedger {
	return &coinLedger{logger: logger}
}

// posting describes one balance movement
type posting struct {
	ownerID       string
	kind          ledger.Kind
	amount        int64 // always positive; the kind decides the sign
	description   string
	reference     string
	correlationID string
	at            time.Time
}

// debit locks the owner's account, removes p.amount and appends the matching negative entry.
// ErrInsufficientBalance is returned before anything is written.
func (c *coinLedger) debit(ctx context.Context, s Stores, p posting) (*ledger.Entry, error) {
	return c.post(ctx, s, p, func(acc *account.Account) error {
		return acc.Debit(p.amount, p.at)
	}, -p.amount)
}

// credit locks the owner's account, adds p.amount and appends the matching positive entry
func (c *coinLedger) credit(ctx context.Context, s Stores, p posting) (*ledger.Entry, error) {
	return c.post(ctx, s, p, func(acc *account.Account) error {
		return acc.Credit(p.amount, p.at)
	}, p.amount)
}

func (c *coinLedger) post(ctx context.Context, s Stores, p posting, apply func(*account.Account) error, signed int64) (*ledger.Entry, error) {
	logger := c.logger.With("owner_id", p.ownerID, "kind", string(p.kind))
	if p.correlationID != "" {
		logger = logger.With("correlation_id", p.correlationID)
	}

	acc, err := s.Accounts.LockForUpdate(ctx, p.ownerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound{}) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to lock account of owner %s: %w", p.ownerID, err)
	}
	logger.Debug("Account locked", "bal", acc.Balance, "ver", acc.Version)

	if err := apply(acc); err != nil {
		logger.Info("Balance change rejected", "bal", acc.Balance, "amt", p.amount, "error", err)
		return nil, err
	}

	if err := s.Accounts.Update(ctx, acc); err != nil {
		var conflict account.ErrConcurrentModification
		if errors.As(err, &conflict) {
			logger.Warn("Concurrent modification on account update")
		}
		return nil, err
	}

	entry := ledger.NewEntry(p.ownerID, p.kind, signed, p.description, p.reference, acc.Balance, p.correlationID, p.at)
	if err := s.Ledger.Append(ctx, entry); err != nil {
		return nil, err
	}

	logger.Info("Balance updated", "amount", signed, "new_bal", acc.Balance, "entry_id", entry.ID.String())
	return entry, nil
}
