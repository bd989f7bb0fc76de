package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/asc-rental-marketplace/internal/domain/ledger"
	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/domain/purchase"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/workflow"
)

var starterPackage = &purchase.Package{ID: "starter", Name: "Starter", Coins: 120, Price: 10000, Description: "120 coins"}

func purchaseRoutes(h *PurchaseHandler) func(r gin.IRoutes) {
	return func(r gin.IRoutes) {
		r.GET("/packages", h.ListPackages)
		r.POST("/purchases", h.Initiate)
		r.GET("/purchases", h.ListMine)
		r.GET("/admin/purchases/pending", h.ListPending)
		r.POST("/admin/purchases/:id/confirm", h.Confirm)
	}
}

func newTestPurchase(status purchase.Status) *purchase.Purchase {
	return &purchase.Purchase{
		ID:                uuid.New(),
		OwnerID:           ownerCaller.UserID,
		PackageID:         starterPackage.ID,
		Status:            status,
		ProofOfPaymentURL: "https://files.example.com/proof.png",
		CreatedAt:         testTime,
		Package:           starterPackage,
	}
}

func TestPurchaseHandler_ListPackages(t *testing.T) {
	packages := new(MockPackageService)
	router := setupTestRouter(shared.Caller{}, purchaseRoutes(NewPurchaseHandler(newTestLogger(), packages, new(MockPurchaseService))))
	packages.On("List", mock.Anything).Return([]*purchase.Package{starterPackage}, nil)

	rr := performRequest(router, http.MethodGet, "/packages", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	data, _, _ := decodeResponse[[]PackageResponse](t, rr)
	require.Len(t, data, 1)
	assert.Equal(t, int64(120), data[0].Coins)
	assert.Equal(t, int64(10000), data[0].Price)
}

func TestPurchaseHandler_Initiate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		purchases := new(MockPurchaseService)
		router := setupTestRouter(ownerCaller, purchaseRoutes(NewPurchaseHandler(newTestLogger(), new(MockPackageService), purchases)))

		p := newTestPurchase(purchase.StatusPending)
		purchases.On("Initiate", mock.Anything, ownerCaller, purchase.Request{
			PackageID:         "starter",
			ProofOfPaymentURL: "https://files.example.com/proof.png",
		}).Return(p, nil)

		rr := performRequest(router, http.MethodPost, "/purchases", InitiatePurchaseRequest{
			PackageID:         "starter",
			ProofOfPaymentURL: "https://files.example.com/proof.png",
		})

		assert.Equal(t, http.StatusCreated, rr.Code)
		data, _, _ := decodeResponse[PurchaseResponse](t, rr)
		assert.Equal(t, "PENDING", data.Status)
		assert.Empty(t, data.ConfirmedAt)
		require.NotNil(t, data.Package)
		assert.Equal(t, "Starter", data.Package.Name)
		purchases.AssertExpectations(t)
	})

	t.Run("UnknownPackage", func(t *testing.T) {
		purchases := new(MockPurchaseService)
		router := setupTestRouter(ownerCaller, purchaseRoutes(NewPurchaseHandler(newTestLogger(), new(MockPackageService), purchases)))
		purchases.On("Initiate", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, shared.ErrNotFound{Entity: "package", ID: "gold"})

		rr := performRequest(router, http.MethodPost, "/purchases", InitiatePurchaseRequest{
			PackageID:         "gold",
			ProofOfPaymentURL: "https://files.example.com/proof.png",
		})

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("MissingProof", func(t *testing.T) {
		purchases := new(MockPurchaseService)
		router := setupTestRouter(ownerCaller, purchaseRoutes(NewPurchaseHandler(newTestLogger(), new(MockPackageService), purchases)))

		rr := performRequest(router, http.MethodPost, "/purchases", map[string]string{"package_id": "starter"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		purchases.AssertNotCalled(t, "Initiate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPurchaseHandler_Confirm(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		purchases := new(MockPurchaseService)
		router := setupTestRouter(adminCaller, purchaseRoutes(NewPurchaseHandler(newTestLogger(), new(MockPackageService), purchases)))

		p := newTestPurchase(purchase.StatusConfirmed)
		confirmedAt := testTime.Add(time.Hour)
		p.ConfirmedAt = &confirmedAt
		entry := ledger.NewEntry(p.OwnerID, ledger.KindPurchaseCredit, 120, ledger.PurchaseCreditDescription(120), p.ID.String(), 125, "", confirmedAt)
		purchases.On("Confirm", mock.Anything, adminCaller, p.ID).
			Return(&workflow.PurchaseConfirmation{Purchase: p, Credited: 120, Entry: entry}, nil)

		rr := performRequest(router, http.MethodPost, "/admin/purchases/"+p.ID.String()+"/confirm", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		data, _, _ := decodeResponse[PurchaseConfirmationResponse](t, rr)
		assert.Equal(t, "CONFIRMED", data.Purchase.Status)
		assert.Equal(t, "2024-05-01T13:00:00Z", data.Purchase.ConfirmedAt)
		assert.Equal(t, int64(120), data.Credited)
		assert.Equal(t, int64(125), data.LedgerEntry.BalanceAfter)
	})

	t.Run("AlreadyConfirmed", func(t *testing.T) {
		purchases := new(MockPurchaseService)
		router := setupTestRouter(adminCaller, purchaseRoutes(NewPurchaseHandler(newTestLogger(), new(MockPackageService), purchases)))

		id := uuid.New()
		purchases.On("Confirm", mock.Anything, adminCaller, id).
			Return(nil, shared.ErrAlreadyProcessed{Entity: "purchase", ID: id.String()})

		rr := performRequest(router, http.MethodPost, "/admin/purchases/"+id.String()+"/confirm", nil)

		assert.Equal(t, http.StatusConflict, rr.Code)
		_, errInfo, _ := decodeResponse[any](t, rr)
		require.NotNil(t, errInfo)
		assert.Equal(t, "ALREADY_PROCESSED", errInfo.Code)
	})

	t.Run("ContentionIsRetryable", func(t *testing.T) {
		purchases := new(MockPurchaseService)
		router := setupTestRouter(adminCaller, purchaseRoutes(NewPurchaseHandler(newTestLogger(), new(MockPackageService), purchases)))

		id := uuid.New()
		purchases.On("Confirm", mock.Anything, adminCaller, id).Return(nil, shared.ErrTransientFailure{})

		rr := performRequest(router, http.MethodPost, "/admin/purchases/"+id.String()+"/confirm", nil)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	})
}

func TestPurchaseHandler_Lists(t *testing.T) {
	t.Run("ListMineEmpty", func(t *testing.T) {
		purchases := new(MockPurchaseService)
		router := setupTestRouter(clientCaller, purchaseRoutes(NewPurchaseHandler(newTestLogger(), new(MockPackageService), purchases)))
		purchases.On("ListMine", mock.Anything, clientCaller).Return([]*purchase.Purchase{}, nil)

		rr := performRequest(router, http.MethodGet, "/purchases", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, extractData(t, rr))
	})

	t.Run("ListPendingForbidden", func(t *testing.T) {
		purchases := new(MockPurchaseService)
		router := setupTestRouter(ownerCaller, purchaseRoutes(NewPurchaseHandler(newTestLogger(), new(MockPackageService), purchases)))
		purchases.On("ListPending", mock.Anything, ownerCaller).Return(nil, shared.ErrForbidden{Reason: "admins only"})

		rr := performRequest(router, http.MethodGet, "/admin/purchases/pending", nil)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func verificationRoutes(h *VerificationHandler) func(r gin.IRoutes) {
	return func(r gin.IRoutes) {
		r.POST("/verification", h.Submit)
		r.GET("/admin/verifications/pending", h.ListPending)
		r.POST("/admin/verifications/:ownerId/confirm", h.Confirm)
	}
}

func TestVerificationHandler(t *testing.T) {
	submission := SubmitVerificationRequest{
		PhoneNumber: "+15550100",
		DocumentURL: "https://files.example.com/id.png",
		SelfieURL:   "https://files.example.com/selfie.png",
	}

	t.Run("SubmitSuccess", func(t *testing.T) {
		verifications := new(MockVerificationService)
		router := setupTestRouter(ownerCaller, verificationRoutes(NewVerificationHandler(newTestLogger(), verifications)))

		submittedAt := testTime
		verifications.On("Submit", mock.Anything, ownerCaller, owner.VerificationSubmission{
			PhoneNumber: submission.PhoneNumber,
			DocumentURL: submission.DocumentURL,
			SelfieURL:   submission.SelfieURL,
		}).Return(&owner.Owner{
			UserID:                  ownerCaller.UserID,
			PhoneNumber:             submission.PhoneNumber,
			VerificationStatus:      owner.VerificationPending,
			VerificationDocumentURL: submission.DocumentURL,
			VerificationSelfieURL:   submission.SelfieURL,
			VerificationSubmittedAt: &submittedAt,
		}, nil)

		rr := performRequest(router, http.MethodPost, "/verification", submission)

		assert.Equal(t, http.StatusOK, rr.Code)
		data, _, _ := decodeResponse[OwnerResponse](t, rr)
		assert.Equal(t, "PENDING", data.VerificationStatus)
		assert.Equal(t, "2024-05-01T12:00:00Z", data.VerificationSubmittedAt)
		assert.Empty(t, data.VerifiedAt)
	})

	t.Run("SubmitWhileVerified", func(t *testing.T) {
		verifications := new(MockVerificationService)
		router := setupTestRouter(ownerCaller, verificationRoutes(NewVerificationHandler(newTestLogger(), verifications)))
		verifications.On("Submit", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, shared.ErrInvalidState{Entity: "verification", Current: "VERIFIED", Action: "submit"})

		rr := performRequest(router, http.MethodPost, "/verification", submission)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("ConfirmPassesOwnerID", func(t *testing.T) {
		verifications := new(MockVerificationService)
		router := setupTestRouter(adminCaller, verificationRoutes(NewVerificationHandler(newTestLogger(), verifications)))

		verifiedAt := testTime
		verifications.On("Confirm", mock.Anything, adminCaller, "owner-7").Return(&owner.Owner{
			UserID:             "owner-7",
			VerificationStatus: owner.VerificationVerified,
			VerifiedAt:         &verifiedAt,
		}, nil)

		rr := performRequest(router, http.MethodPost, "/admin/verifications/owner-7/confirm", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		data, _, _ := decodeResponse[OwnerResponse](t, rr)
		assert.Equal(t, "VERIFIED", data.VerificationStatus)
		verifications.AssertExpectations(t)
	})

	t.Run("ListPending", func(t *testing.T) {
		verifications := new(MockVerificationService)
		router := setupTestRouter(adminCaller, verificationRoutes(NewVerificationHandler(newTestLogger(), verifications)))
		verifications.On("ListPending", mock.Anything, adminCaller).Return([]*owner.Owner{
			{UserID: "owner-2", VerificationStatus: owner.VerificationPending},
		}, nil)

		rr := performRequest(router, http.MethodGet, "/admin/verifications/pending", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		data, _, _ := decodeResponse[[]OwnerResponse](t, rr)
		require.Len(t, data, 1)
		assert.Equal(t, "owner-2", data[0].UserID)
	})
}
