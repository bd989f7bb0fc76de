package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/activity"
	"github.com/asc-rental-marketplace/internal/domain/ledger"
	"github.com/asc-rental-marketplace/internal/domain/listing"
	"github.com/asc-rental-marketplace/internal/domain/messaging"
	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/domain/purchase"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/domain/user"
	"github.com/asc-rental-marketplace/internal/workflow"
)

// Workflows is the state-changing surface of the marketplace. *workflow.Engine implements it.
type Workflows interface {
	PublishListing(ctx context.Context, caller shared.Caller, draft listing.Draft) (*workflow.ListingResult, error)
	DeactivateListing(ctx context.Context, caller shared.Caller, listingID uuid.UUID) (*workflow.ListingResult, error)
	ReactivateListing(ctx context.Context, caller shared.Caller, listingID uuid.UUID) (*workflow.ListingResult, error)
	InitiatePurchase(ctx context.Context, caller shared.Caller, req purchase.Request) (*purchase.Purchase, error)
	ConfirmPurchase(ctx context.Context, caller shared.Caller, purchaseID uuid.UUID) (*workflow.PurchaseConfirmation, error)
	InitiateVerification(ctx context.Context, caller shared.Caller, sub owner.VerificationSubmission) (*owner.Owner, error)
	ConfirmVerification(ctx context.Context, caller shared.Caller, ownerID string) (*owner.Owner, error)
	ToggleFavorite(ctx context.Context, caller shared.Caller, propertyID uuid.UUID) (bool, error)
	GetOrCreateConversation(ctx context.Context, caller shared.Caller, propertyID uuid.UUID) (*messaging.Conversation, bool, error)
	SendMessage(ctx context.Context, caller shared.Caller, conversationID uuid.UUID, text string) (*messaging.Message, error)
	MarkRead(ctx context.Context, caller shared.Caller, conversationID uuid.UUID) (int64, error)
	RegisterUser(ctx context.Context, caller shared.Caller, reg user.Registration) (*user.User, error)
	UpdateProfile(ctx context.Context, caller shared.Caller, upd user.ProfileUpdate) (*user.User, error)
}

var _ Workflows = (*workflow.Engine)(nil)

// ActivityReader reads the projected activity feed
type ActivityReader interface {
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*activity.Event, error)
	ListRecent(ctx context.Context, limit int) ([]*activity.Event, error)
}

// ListingService covers the public catalog and the owner's listing lifecycle
type ListingService interface {
	// Search returns one page of AVAILABLE listings
	Search(ctx context.Context, q SearchQuery) (*ListingPage, error)

	// Get returns a listing in any status, or ErrNotFound
	Get(ctx context.Context, id uuid.UUID) (*listing.Listing, error)

	// ListMine returns every listing of the calling owner, newest first
	ListMine(ctx context.Context, caller shared.Caller) ([]*listing.Listing, error)

	Publish(ctx context.Context, caller shared.Caller, draft listing.Draft) (*workflow.ListingResult, error)
	Deactivate(ctx context.Context, caller shared.Caller, id uuid.UUID) (*workflow.ListingResult, error)
	Reactivate(ctx context.Context, caller shared.Caller, id uuid.UUID) (*workflow.ListingResult, error)
}

// PackageService reads the coin package catalog
type PackageService interface {
	List(ctx context.Context) ([]*purchase.Package, error)
	Get(ctx context.Context, id string) (*purchase.Package, error)
}

// PurchaseService covers coin purchases from request to confirmation
type PurchaseService interface {
	Initiate(ctx context.Context, caller shared.Caller, req purchase.Request) (*purchase.Purchase, error)
	Confirm(ctx context.Context, caller shared.Caller, id uuid.UUID) (*workflow.PurchaseConfirmation, error)

	// ListMine returns the owner's purchases; callers without purchases get an empty list
	ListMine(ctx context.Context, caller shared.Caller) ([]*purchase.Purchase, error)
	ListPending(ctx context.Context, caller shared.Caller) ([]*purchase.Purchase, error)
}

// VerificationService covers owner identity verification
type VerificationService interface {
	Submit(ctx context.Context, caller shared.Caller, sub owner.VerificationSubmission) (*owner.Owner, error)
	Confirm(ctx context.Context, caller shared.Caller, ownerID string) (*owner.Owner, error)
	ListPending(ctx context.Context, caller shared.Caller) ([]*owner.Owner, error)
}

// ProfileService covers registration and the caller's own data
type ProfileService interface {
	Register(ctx context.Context, caller shared.Caller, reg user.Registration) (*user.User, error)
	Update(ctx context.Context, caller shared.Caller, upd user.ProfileUpdate) (*Profile, error)
	GetMe(ctx context.Context, caller shared.Caller) (*Profile, error)

	// LedgerFor pages through the calling owner's coin history, newest first
	LedgerFor(ctx context.Context, caller shared.Caller, page, perPage int) (*LedgerPage, error)
	ActivityFor(ctx context.Context, caller shared.Caller, limit int) ([]*activity.Event, error)
}

// FavoriteService covers a client's saved listings
type FavoriteService interface {
	Toggle(ctx context.Context, caller shared.Caller, propertyID uuid.UUID) (bool, error)
	ListMine(ctx context.Context, caller shared.Caller) ([]*listing.Listing, error)
}

// ConversationService covers messaging between clients and owners
type ConversationService interface {
	Open(ctx context.Context, caller shared.Caller, propertyID uuid.UUID) (*messaging.Conversation, bool, error)
	List(ctx context.Context, caller shared.Caller) ([]*messaging.Conversation, error)
	Messages(ctx context.Context, caller shared.Caller, id uuid.UUID) ([]*messaging.Message, error)
	Send(ctx context.Context, caller shared.Caller, id uuid.UUID, text string) (*messaging.Message, error)
	MarkRead(ctx context.Context, caller shared.Caller, id uuid.UUID) (int64, error)
}

// AdminService covers the back-office dashboard
type AdminService interface {
	Stats(ctx context.Context, caller shared.Caller) (*Stats, error)
	RecentActivity(ctx context.Context, caller shared.Caller, limit int) ([]*activity.Event, error)
}

// LedgerPage is one page of an owner's ledger
type LedgerPage struct {
	Entries []*ledger.Entry
	Page    int
	PerPage int
	Total   int64
}
