package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/asc-rental-marketplace/internal/domain/activity"
	"github.com/asc-rental-marketplace/internal/domain/listing"
	"github.com/asc-rental-marketplace/internal/domain/messaging"
	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/domain/purchase"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/domain/user"
	"github.com/asc-rental-marketplace/internal/marketplace_api/middleware"
	"github.com/asc-rental-marketplace/internal/marketplace_api/service"
	"github.com/asc-rental-marketplace/internal/workflow"
)

var (
	ownerCaller  = shared.Caller{UserID: "owner-1", Role: shared.RoleOwner}
	clientCaller = shared.Caller{UserID: "client-1", Role: shared.RoleClient}
	adminCaller  = shared.Caller{UserID: "admin-1", Role: shared.RoleAdmin}
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// setupTestRouter mounts routes behind a stub authentication step that injects caller.
// A zero caller leaves the request unauthenticated.
func setupTestRouter(caller shared.Caller, register func(r gin.IRoutes)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.CorrelationID())
	router.Use(func(c *gin.Context) {
		if caller.UserID != "" {
			c.Set(middleware.CallerKey, caller)
		}
		c.Next()
	})
	register(router)
	return router
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}

	req, _ := http.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// decodeResponse unmarshals the envelope, decoding data into T
func decodeResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) (T, *ErrorInfo, *MetaInfo) {
	t.Helper()
	var envelope struct {
		Data  T          `json:"data"`
		Error *ErrorInfo `json:"error"`
		Meta  *MetaInfo  `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope), rr.Body.String())
	return envelope.Data, envelope.Error, envelope.Meta
}

func result[T any](args mock.Arguments, i int) T {
	var zero T
	if v := args.Get(i); v != nil {
		return v.(T)
	}
	return zero
}

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Search(ctx context.Context, q service.SearchQuery) (*service.ListingPage, error) {
	args := m.Called(ctx, q)
	return result[*service.ListingPage](args, 0), args.Error(1)
}

func (m *MockListingService) Get(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	return result[*listing.Listing](args, 0), args.Error(1)
}

func (m *MockListingService) ListMine(ctx context.Context, caller shared.Caller) ([]*listing.Listing, error) {
	args := m.Called(ctx, caller)
	return result[[]*listing.Listing](args, 0), args.Error(1)
}

func (m *MockListingService) Publish(ctx context.Context, caller shared.Caller, draft listing.Draft) (*workflow.ListingResult, error) {
	args := m.Called(ctx, caller, draft)
	return result[*workflow.ListingResult](args, 0), args.Error(1)
}

func (m *MockListingService) Deactivate(ctx context.Context, caller shared.Caller, id uuid.UUID) (*workflow.ListingResult, error) {
	args := m.Called(ctx, caller, id)
	return result[*workflow.ListingResult](args, 0), args.Error(1)
}

func (m *MockListingService) Reactivate(ctx context.Context, caller shared.Caller, id uuid.UUID) (*workflow.ListingResult, error) {
	args := m.Called(ctx, caller, id)
	return result[*workflow.ListingResult](args, 0), args.Error(1)
}

type MockPackageService struct {
	mock.Mock
}

func (m *MockPackageService) List(ctx context.Context) ([]*purchase.Package, error) {
	args := m.Called(ctx)
	return result[[]*purchase.Package](args, 0), args.Error(1)
}

func (m *MockPackageService) Get(ctx context.Context, id string) (*purchase.Package, error) {
	args := m.Called(ctx, id)
	return result[*purchase.Package](args, 0), args.Error(1)
}

type MockPurchaseService struct {
	mock.Mock
}

func (m *MockPurchaseService) Initiate(ctx context.Context, caller shared.Caller, req purchase.Request) (*purchase.Purchase, error) {
	args := m.Called(ctx, caller, req)
	return result[*purchase.Purchase](args, 0), args.Error(1)
}

func (m *MockPurchaseService) Confirm(ctx context.Context, caller shared.Caller, id uuid.UUID) (*workflow.PurchaseConfirmation, error) {
	args := m.Called(ctx, caller, id)
	return result[*workflow.PurchaseConfirmation](args, 0), args.Error(1)
}

func (m *MockPurchaseService) ListMine(ctx context.Context, caller shared.Caller) ([]*purchase.Purchase, error) {
	args := m.Called(ctx, caller)
	return result[[]*purchase.Purchase](args, 0), args.Error(1)
}

func (m *MockPurchaseService) ListPending(ctx context.Context, caller shared.Caller) ([]*purchase.Purchase, error) {
	args := m.Called(ctx, caller)
	return result[[]*purchase.Purchase](args, 0), args.Error(1)
}

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) Submit(ctx context.Context, caller shared.Caller, sub owner.VerificationSubmission) (*owner.Owner, error) {
	args := m.Called(ctx, caller, sub)
	return result[*owner.Owner](args, 0), args.Error(1)
}

func (m *MockVerificationService) Confirm(ctx context.Context, caller shared.Caller, ownerID string) (*owner.Owner, error) {
	args := m.Called(ctx, caller, ownerID)
	return result[*owner.Owner](args, 0), args.Error(1)
}

func (m *MockVerificationService) ListPending(ctx context.Context, caller shared.Caller) ([]*owner.Owner, error) {
	args := m.Called(ctx, caller)
	return result[[]*owner.Owner](args, 0), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Register(ctx context.Context, caller shared.Caller, reg user.Registration) (*user.User, error) {
	args := m.Called(ctx, caller, reg)
	return result[*user.User](args, 0), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, caller shared.Caller, upd user.ProfileUpdate) (*service.Profile, error) {
	args := m.Called(ctx, caller, upd)
	return result[*service.Profile](args, 0), args.Error(1)
}

func (m *MockProfileService) GetMe(ctx context.Context, caller shared.Caller) (*service.Profile, error) {
	args := m.Called(ctx, caller)
	return result[*service.Profile](args, 0), args.Error(1)
}

func (m *MockProfileService) LedgerFor(ctx context.Context, caller shared.Caller, page, perPage int) (*service.LedgerPage, error) {
	args := m.Called(ctx, caller, page, perPage)
	return result[*service.LedgerPage](args, 0), args.Error(1)
}

func (m *MockProfileService) ActivityFor(ctx context.Context, caller shared.Caller, limit int) ([]*activity.Event, error) {
	args := m.Called(ctx, caller, limit)
	return result[[]*activity.Event](args, 0), args.Error(1)
}

type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) Toggle(ctx context.Context, caller shared.Caller, propertyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, caller, propertyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteService) ListMine(ctx context.Context, caller shared.Caller) ([]*listing.Listing, error) {
	args := m.Called(ctx, caller)
	return result[[]*listing.Listing](args, 0), args.Error(1)
}

type MockConversationService struct {
	mock.Mock
}

func (m *MockConversationService) Open(ctx context.Context, caller shared.Caller, propertyID uuid.UUID) (*messaging.Conversation, bool, error) {
	args := m.Called(ctx, caller, propertyID)
	return result[*messaging.Conversation](args, 0), args.Bool(1), args.Error(2)
}

func (m *MockConversationService) List(ctx context.Context, caller shared.Caller) ([]*messaging.Conversation, error) {
	args := m.Called(ctx, caller)
	return result[[]*messaging.Conversation](args, 0), args.Error(1)
}

func (m *MockConversationService) Messages(ctx context.Context, caller shared.Caller, id uuid.UUID) ([]*messaging.Message, error) {
	args := m.Called(ctx, caller, id)
	return result[[]*messaging.Message](args, 0), args.Error(1)
}

func (m *MockConversationService) Send(ctx context.Context, caller shared.Caller, id uuid.UUID, text string) (*messaging.Message, error) {
	args := m.Called(ctx, caller, id, text)
	return result[*messaging.Message](args, 0), args.Error(1)
}

func (m *MockConversationService) MarkRead(ctx context.Context, caller shared.Caller, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, caller, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Stats(ctx context.Context, caller shared.Caller) (*service.Stats, error) {
	args := m.Called(ctx, caller)
	return result[*service.Stats](args, 0), args.Error(1)
}

func (m *MockAdminService) RecentActivity(ctx context.Context, caller shared.Caller, limit int) ([]*activity.Event, error) {
	args := m.Called(ctx, caller, limit)
	return result[[]*activity.Event](args, 0), args.Error(1)
}

// extractData returns the raw JSON of the envelope's data field
func extractData(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	return string(envelope.Data)
}
