package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/asc-rental-marketplace/internal/domain/account"
	"github.com/asc-rental-marketplace/internal/domain/activity"
	"github.com/asc-rental-marketplace/internal/domain/favorite"
	"github.com/asc-rental-marketplace/internal/domain/ledger"
	"github.com/asc-rental-marketplace/internal/domain/listing"
	"github.com/asc-rental-marketplace/internal/domain/messaging"
	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/domain/purchase"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/domain/user"
	"github.com/asc-rental-marketplace/internal/workflow"
)

// result extracts a typed return value, treating an untyped nil as the zero value
func result[T any](args mock.Arguments, i int) T {
	var zero T
	if v := args.Get(i); v != nil {
		return v.(T)
	}
	return zero
}

type MockWorkflows struct {
	mock.Mock
}

func (m *MockWorkflows) PublishListing(ctx context.Context, caller shared.Caller, draft listing.Draft) (*workflow.ListingResult, error) {
	args := m.Called(ctx, caller, draft)
	return result[*workflow.ListingResult](args, 0), args.Error(1)
}

func (m *MockWorkflows) DeactivateListing(ctx context.Context, caller shared.Caller, id uuid.UUID) (*workflow.ListingResult, error) {
	args := m.Called(ctx, caller, id)
	return result[*workflow.ListingResult](args, 0), args.Error(1)
}

func (m *MockWorkflows) ReactivateListing(ctx context.Context, caller shared.Caller, id uuid.UUID) (*workflow.ListingResult, error) {
	args := m.Called(ctx, caller, id)
	return result[*workflow.ListingResult](args, 0), args.Error(1)
}

func (m *MockWorkflows) InitiatePurchase(ctx context.Context, caller shared.Caller, req purchase.Request) (*purchase.Purchase, error) {
	args := m.Called(ctx, caller, req)
	return result[*purchase.Purchase](args, 0), args.Error(1)
}

func (m *MockWorkflows) ConfirmPurchase(ctx context.Context, caller shared.Caller, id uuid.UUID) (*workflow.PurchaseConfirmation, error) {
	args := m.Called(ctx, caller, id)
	return result[*workflow.PurchaseConfirmation](args, 0), args.Error(1)
}

func (m *MockWorkflows) InitiateVerification(ctx context.Context, caller shared.Caller, sub owner.VerificationSubmission) (*owner.Owner, error) {
	args := m.Called(ctx, caller, sub)
	return result[*owner.Owner](args, 0), args.Error(1)
}

func (m *MockWorkflows) ConfirmVerification(ctx context.Context, caller shared.Caller, ownerID string) (*owner.Owner, error) {
	args := m.Called(ctx, caller, ownerID)
	return result[*owner.Owner](args, 0), args.Error(1)
}

func (m *MockWorkflows) ToggleFavorite(ctx context.Context, caller shared.Caller, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, caller, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkflows) GetOrCreateConversation(ctx context.Context, caller shared.Caller, id uuid.UUID) (*messaging.Conversation, bool, error) {
	args := m.Called(ctx, caller, id)
	return result[*messaging.Conversation](args, 0), args.Bool(1), args.Error(2)
}

func (m *MockWorkflows) SendMessage(ctx context.Context, caller shared.Caller, id uuid.UUID, text string) (*messaging.Message, error) {
	args := m.Called(ctx, caller, id, text)
	return result[*messaging.Message](args, 0), args.Error(1)
}

func (m *MockWorkflows) MarkRead(ctx context.Context, caller shared.Caller, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, caller, id)
	return result[int64](args, 0), args.Error(1)
}

func (m *MockWorkflows) RegisterUser(ctx context.Context, caller shared.Caller, reg user.Registration) (*user.User, error) {
	args := m.Called(ctx, caller, reg)
	return result[*user.User](args, 0), args.Error(1)
}

func (m *MockWorkflows) UpdateProfile(ctx context.Context, caller shared.Caller, upd user.ProfileUpdate) (*user.User, error) {
	args := m.Called(ctx, caller, upd)
	return result[*user.User](args, 0), args.Error(1)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	return result[*listing.Listing](args, 0), args.Error(1)
}

func (m *MockListingRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	return result[*listing.Listing](args, 0), args.Error(1)
}

func (m *MockListingRepository) UpdateStatus(ctx context.Context, l *listing.Listing) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockListingRepository) Search(ctx context.Context, f listing.SearchFilter) ([]*listing.Listing, int64, error) {
	args := m.Called(ctx, f)
	return result[[]*listing.Listing](args, 0), result[int64](args, 1), args.Error(2)
}

func (m *MockListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*listing.Listing, error) {
	args := m.Called(ctx, ownerID)
	return result[[]*listing.Listing](args, 0), args.Error(1)
}

func (m *MockListingRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*listing.Listing, error) {
	args := m.Called(ctx, ids)
	return result[[]*listing.Listing](args, 0), args.Error(1)
}

func (m *MockListingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return result[int64](args, 0), args.Error(1)
}

func (m *MockListingRepository) WithTx(pgx.Tx) listing.Repository { return m }

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	args := m.Called(ctx, id)
	return result[*purchase.Purchase](args, 0), args.Error(1)
}

func (m *MockPurchaseRepository) ConfirmPending(ctx context.Context, id uuid.UUID, at time.Time) (*purchase.Purchase, bool, error) {
	args := m.Called(ctx, id, at)
	return result[*purchase.Purchase](args, 0), args.Bool(1), args.Error(2)
}

func (m *MockPurchaseRepository) ListByOwner(ctx context.Context, ownerID string) ([]*purchase.Purchase, error) {
	args := m.Called(ctx, ownerID)
	return result[[]*purchase.Purchase](args, 0), args.Error(1)
}

func (m *MockPurchaseRepository) ListPending(ctx context.Context) ([]*purchase.Purchase, error) {
	args := m.Called(ctx)
	return result[[]*purchase.Purchase](args, 0), args.Error(1)
}

func (m *MockPurchaseRepository) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return result[int64](args, 0), args.Error(1)
}

func (m *MockPurchaseRepository) WithTx(pgx.Tx) purchase.Repository { return m }

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) List(ctx context.Context) ([]*purchase.Package, error) {
	args := m.Called(ctx)
	return result[[]*purchase.Package](args, 0), args.Error(1)
}

func (m *MockPackageRepository) GetByID(ctx context.Context, id string) (*purchase.Package, error) {
	args := m.Called(ctx, id)
	return result[*purchase.Package](args, 0), args.Error(1)
}

func (m *MockPackageRepository) WithTx(pgx.Tx) purchase.PackageRepository { return m }

type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) Create(ctx context.Context, o *owner.Owner) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOwnerRepository) GetByUserID(ctx context.Context, userID string) (*owner.Owner, error) {
	args := m.Called(ctx, userID)
	return result[*owner.Owner](args, 0), args.Error(1)
}

func (m *MockOwnerRepository) LockForUpdate(ctx context.Context, userID string) (*owner.Owner, error) {
	args := m.Called(ctx, userID)
	return result[*owner.Owner](args, 0), args.Error(1)
}

func (m *MockOwnerRepository) SaveVerificationSubmission(ctx context.Context, o *owner.Owner) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOwnerRepository) ConfirmVerification(ctx context.Context, userID string, at time.Time) (bool, error) {
	args := m.Called(ctx, userID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockOwnerRepository) UpdateContact(ctx context.Context, userID, phone, picture string) error {
	return m.Called(ctx, userID, phone, picture).Error(0)
}

func (m *MockOwnerRepository) ListPendingVerification(ctx context.Context) ([]*owner.Owner, error) {
	args := m.Called(ctx)
	return result[[]*owner.Owner](args, 0), args.Error(1)
}

func (m *MockOwnerRepository) CountPendingVerification(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return result[int64](args, 0), args.Error(1)
}

func (m *MockOwnerRepository) WithTx(pgx.Tx) owner.Repository { return m }

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	return result[*user.User](args, 0), args.Error(1)
}

func (m *MockUserRepository) UpdateName(ctx context.Context, id, name string) error {
	return m.Called(ctx, id, name).Error(0)
}

func (m *MockUserRepository) CountByRoles(ctx context.Context, roles ...shared.Role) (int64, error) {
	args := m.Called(ctx, roles)
	return result[int64](args, 0), args.Error(1)
}

func (m *MockUserRepository) CreateClient(ctx context.Context, c *user.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockUserRepository) GetClient(ctx context.Context, userID string) (*user.Client, error) {
	args := m.Called(ctx, userID)
	return result[*user.Client](args, 0), args.Error(1)
}

func (m *MockUserRepository) UpdateClientPicture(ctx context.Context, userID, picture string) error {
	return m.Called(ctx, userID, picture).Error(0)
}

func (m *MockUserRepository) WithTx(pgx.Tx) user.Repository { return m }

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, a *account.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAccountRepository) GetByOwnerID(ctx context.Context, ownerID string) (*account.Account, error) {
	args := m.Called(ctx, ownerID)
	return result[*account.Account](args, 0), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, a *account.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAccountRepository) LockForUpdate(ctx context.Context, ownerID string) (*account.Account, error) {
	args := m.Called(ctx, ownerID)
	return result[*account.Account](args, 0), args.Error(1)
}

func (m *MockAccountRepository) WithTx(pgx.Tx) account.Repository { return m }

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, e *ledger.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockLedgerRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return result[[]*ledger.Entry](args, 0), args.Error(1)
}

func (m *MockLedgerRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return result[int64](args, 0), args.Error(1)
}

func (m *MockLedgerRepository) WithTx(pgx.Tx) ledger.Repository { return m }

type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Add(ctx context.Context, f *favorite.Favorite) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, clientID string, propertyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, clientID, propertyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) ListPropertyIDs(ctx context.Context, clientID string) ([]uuid.UUID, error) {
	args := m.Called(ctx, clientID)
	return result[[]uuid.UUID](args, 0), args.Error(1)
}

func (m *MockFavoriteRepository) WithTx(pgx.Tx) favorite.Repository { return m }

type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) FindByKey(ctx context.Context, propertyID uuid.UUID, a, b string) (*messaging.Conversation, error) {
	args := m.Called(ctx, propertyID, a, b)
	return result[*messaging.Conversation](args, 0), args.Error(1)
}

func (m *MockConversationRepository) CreateIfAbsent(ctx context.Context, c *messaging.Conversation) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

func (m *MockConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*messaging.Conversation, error) {
	args := m.Called(ctx, id)
	return result[*messaging.Conversation](args, 0), args.Error(1)
}

func (m *MockConversationRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockConversationRepository) ListForUser(ctx context.Context, userID string) ([]*messaging.Conversation, error) {
	args := m.Called(ctx, userID)
	return result[[]*messaging.Conversation](args, 0), args.Error(1)
}

func (m *MockConversationRepository) AddMessage(ctx context.Context, msg *messaging.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockConversationRepository) ListMessages(ctx context.Context, id uuid.UUID) ([]*messaging.Message, error) {
	args := m.Called(ctx, id)
	return result[[]*messaging.Message](args, 0), args.Error(1)
}

func (m *MockConversationRepository) MarkRead(ctx context.Context, id uuid.UUID, readerID string) (int64, error) {
	args := m.Called(ctx, id, readerID)
	return result[int64](args, 0), args.Error(1)
}

func (m *MockConversationRepository) WithTx(pgx.Tx) messaging.Repository { return m }

type MockActivityReader struct {
	mock.Mock
}

func (m *MockActivityReader) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*activity.Event, error) {
	args := m.Called(ctx, ownerID, limit)
	return result[[]*activity.Event](args, 0), args.Error(1)
}

func (m *MockActivityReader) ListRecent(ctx context.Context, limit int) ([]*activity.Event, error) {
	args := m.Called(ctx, limit)
	return result[[]*activity.Event](args, 0), args.Error(1)
}
