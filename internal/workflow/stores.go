package workflow

import (
	"github.com/jackc/pgx/v5"

	"github.com/asc-rental-marketplace/internal/domain/account"
	"github.com/asc-rental-marketplace/internal/domain/favorite"
	"github.com/asc-rental-marketplace/internal/domain/ledger"
	"github.com/asc-rental-marketplace/internal/domain/listing"
	"github.com/asc-rental-marketplace/internal/domain/messaging"
	"github.com/asc-rental-marketplace/internal/domain/outbox"
	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/domain/purchase"
	"github.com/asc-rental-marketplace/internal/domain/user"
)

// Stores is the set of repositories a workflow may touch. Inside TxRunner.InTx every
// repository is bound to the same transaction.
type Stores struct {
	Accounts      account.Repository
	Ledger        ledger.Repository
	Listings      listing.Repository
	Owners        owner.Repository
	Users         user.Repository
	Purchases     purchase.Repository
	Packages      purchase.PackageRepository
	Favorites     favorite.Repository
	Conversations messaging.Repository
	Outbox        outbox.Repository
}

// WithTx binds every repository to tx
func (s Stores) WithTx(tx pgx.Tx) Stores {
	return Stores{
		Accounts:      s.Accounts.WithTx(tx),
		Ledger:        s.Ledger.WithTx(tx),
		Listings:      s.Listings.WithTx(tx),
		Owners:        s.Owners.WithTx(tx),
		Users:         s.Users.WithTx(tx),
		Purchases:     s.Purchases.WithTx(tx),
		Packages:      s.Packages.WithTx(tx),
		Favorites:     s.Favorites.WithTx(tx),
		Conversations: s.Conversations.WithTx(tx),
		Outbox:        s.Outbox.WithTx(tx),
	}
}
