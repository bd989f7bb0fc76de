package handler

import (
	"time"

	"github.com/asc-rental-marketplace/internal/domain/activity"
	"github.com/asc-rental-marketplace/internal/domain/ledger"
	"github.com/asc-rental-marketplace/internal/domain/listing"
	"github.com/asc-rental-marketplace/internal/domain/messaging"
	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/domain/purchase"
	"github.com/asc-rental-marketplace/internal/marketplace_api/service"
	"github.com/asc-rental-marketplace/internal/workflow"
)

// PublishListingRequest represents a request to publish a new listing
type PublishListingRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Address     string   `json:"address" binding:"required"`
	Price       int64    `json:"price" binding:"required,gt=0"`
	Bedrooms    int      `json:"bedrooms" binding:"min=0"`
	Bathrooms   int      `json:"bathrooms" binding:"min=0"`
	Area        int      `json:"area" binding:"min=0"`
	ImageURLs   []string `json:"image_urls"`
}

// SearchParams represents the public catalog query string
type SearchParams struct {
	Term        string `form:"q"`
	MinPrice    int64  `form:"min_price" binding:"min=0"`
	MaxPrice    int64  `form:"max_price" binding:"min=0"`
	MinBedrooms int    `form:"bedrooms" binding:"min=0"`
	PaginationParams
}

// PaginationParams represents pagination parameters for list endpoints.
// Zero values fall back to the configured defaults.
type PaginationParams struct {
	Page    int `form:"page" binding:"min=0"`
	PerPage int `form:"per_page" binding:"min=0"`
}

// LimitParams bounds feed endpoints
type LimitParams struct {
	Limit int `form:"limit" binding:"min=0"`
}

// InitiatePurchaseRequest represents a coin package purchase with its proof of payment
type InitiatePurchaseRequest struct {
	PackageID         string `json:"package_id" binding:"required"`
	ProofOfPaymentURL string `json:"proof_of_payment_url" binding:"required"`
}

// SubmitVerificationRequest represents an owner's identity documents
type SubmitVerificationRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	DocumentURL string `json:"document_url" binding:"required"`
	SelfieURL   string `json:"selfie_url" binding:"required"`
}

// RegisterRequest represents the one-time registration after sign-up
type RegisterRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// UpdateProfileRequest changes only the fields present in the body
type UpdateProfileRequest struct {
	Name              *string `json:"name"`
	PhoneNumber       *string `json:"phone_number"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

// OpenConversationRequest represents a request to talk about a listing
type OpenConversationRequest struct {
	PropertyID string `json:"property_id" binding:"required,uuid"`
}

// SendMessageRequest represents a chat message
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// ListingResponse represents a listing in API responses
type ListingResponse struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Status      string   `json:"status"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Price       int64    `json:"price"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Area        int      `json:"area"`
	ImageURLs   []string `json:"image_urls"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// LedgerEntryResponse represents one coin movement
type LedgerEntryResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Amount       int64  `json:"amount"`
	Description  string `json:"description"`
	Reference    string `json:"reference,omitempty"`
	BalanceAfter int64  `json:"balance_after"`
	CreatedAt    string `json:"created_at"`
}

// ListingResultResponse is returned by the paid listing transitions
type ListingResultResponse struct {
	Listing     ListingResponse      `json:"listing"`
	LedgerEntry *LedgerEntryResponse `json:"ledger_entry,omitempty"`
}

// PackageResponse represents a coin package
type PackageResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Coins       int64  `json:"coins"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

// PurchaseResponse represents a coin purchase
type PurchaseResponse struct {
	ID                string           `json:"id"`
	OwnerID           string           `json:"owner_id"`
	PackageID         string           `json:"package_id"`
	Status            string           `json:"status"`
	ProofOfPaymentURL string           `json:"proof_of_payment_url"`
	CreatedAt         string           `json:"created_at"`
	ConfirmedAt       string           `json:"confirmed_at,omitempty"`
	Package           *PackageResponse `json:"package,omitempty"`
}

// PurchaseConfirmationResponse is returned when an admin confirms a purchase
type PurchaseConfirmationResponse struct {
	Purchase    PurchaseResponse    `json:"purchase"`
	Credited    int64               `json:"credited"`
	LedgerEntry LedgerEntryResponse `json:"ledger_entry"`
}

// OwnerResponse represents an owner profile
type OwnerResponse struct {
	UserID                  string `json:"user_id"`
	PhoneNumber             string `json:"phone_number,omitempty"`
	ProfilePictureURL       string `json:"profile_picture_url,omitempty"`
	VerificationStatus      string `json:"verification_status"`
	VerificationDocumentURL string `json:"verification_document_url,omitempty"`
	VerificationSelfieURL   string `json:"verification_selfie_url,omitempty"`
	VerificationSubmittedAt string `json:"verification_submitted_at,omitempty"`
	VerifiedAt              string `json:"verified_at,omitempty"`
}

// ProfileResponse represents the caller's own profile
type ProfileResponse struct {
	ID                string         `json:"id"`
	Email             string         `json:"email"`
	Name              string         `json:"name"`
	Role              string         `json:"role"`
	CreatedAt         string         `json:"created_at"`
	Owner             *OwnerResponse `json:"owner,omitempty"`
	Balance           *int64         `json:"balance,omitempty"`
	ProfilePictureURL string         `json:"profile_picture_url,omitempty"`
	FavoriteIDs       []string       `json:"favorite_ids,omitempty"`
}

// ToggleFavoriteResponse reports the favorite state after a toggle
type ToggleFavoriteResponse struct {
	PropertyID string `json:"property_id"`
	Favorited  bool   `json:"favorited"`
}

// MessageResponse represents a chat message
type MessageResponse struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Text           string `json:"text"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      string `json:"created_at"`
}

// ConversationResponse represents a conversation with its latest message
type ConversationResponse struct {
	ID            string           `json:"id"`
	PropertyID    string           `json:"property_id"`
	PropertyTitle string           `json:"property_title,omitempty"`
	Participants  []string         `json:"participants"`
	CreatedAt     string           `json:"created_at"`
	UpdatedAt     string           `json:"updated_at"`
	LastMessage   *MessageResponse `json:"last_message,omitempty"`
}

// MarkReadResponse reports how many messages were marked as read
type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

// ActivityResponse represents one projected activity feed item
type ActivityResponse struct {
	EventID     string               `json:"event_id"`
	Type        string               `json:"type"`
	OwnerID     string               `json:"owner_id"`
	ActorID     string               `json:"actor_id"`
	SubjectID   string               `json:"subject_id"`
	OccurredAt  string               `json:"occurred_at"`
	LedgerEntry *LedgerEntryResponse `json:"ledger_entry,omitempty"`
	Details     map[string]string    `json:"details,omitempty"`
}

// StatsResponse represents the admin dashboard counters
type StatsResponse struct {
	TotalUsers           int64 `json:"total_users"`
	TotalProperties      int64 `json:"total_properties"`
	PendingVerifications int64 `json:"pending_verifications"`
	PendingPurchases     int64 `json:"pending_purchases"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func mapListingToResponse(l *listing.Listing) ListingResponse {
	images := l.ImageURLs
	if images == nil {
		images = []string{}
	}
	return ListingResponse{
		ID:          l.ID.String(),
		OwnerID:     l.OwnerID,
		Status:      string(l.Status),
		Title:       l.Title,
		Description: l.Description,
		Address:     l.Address,
		Price:       l.Price,
		Bedrooms:    l.Bedrooms,
		Bathrooms:   l.Bathrooms,
		Area:        l.Area,
		ImageURLs:   images,
		CreatedAt:   formatTime(l.CreatedAt),
		UpdatedAt:   formatTime(l.UpdatedAt),
	}
}

func mapListingsToResponse(listings []*listing.Listing) []ListingResponse {
	response := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		response = append(response, mapListingToResponse(l))
	}
	return response
}

func mapEntryToResponse(e *ledger.Entry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:           e.ID.String(),
		Kind:         string(e.Kind),
		Amount:       e.Amount,
		Description:  e.Description,
		Reference:    e.Reference,
		BalanceAfter: e.BalanceAfter,
		CreatedAt:    formatTime(e.CreatedAt),
	}
}

func mapOptionalEntry(e *ledger.Entry) *LedgerEntryResponse {
	if e == nil {
		return nil
	}
	response := mapEntryToResponse(e)
	return &response
}

func mapListingResultToResponse(r *workflow.ListingResult) ListingResultResponse {
	return ListingResultResponse{
		Listing:     mapListingToResponse(r.Listing),
		LedgerEntry: mapOptionalEntry(r.Entry),
	}
}

func mapPackageToResponse(p *purchase.Package) PackageResponse {
	return PackageResponse{
		ID:          p.ID,
		Name:        p.Name,
		Coins:       p.Coins,
		Price:       p.Price,
		Description: p.Description,
	}
}

func mapPurchaseToResponse(p *purchase.Purchase) PurchaseResponse {
	response := PurchaseResponse{
		ID:                p.ID.String(),
		OwnerID:           p.OwnerID,
		PackageID:         p.PackageID,
		Status:            string(p.Status),
		ProofOfPaymentURL: p.ProofOfPaymentURL,
		CreatedAt:         formatTime(p.CreatedAt),
		ConfirmedAt:       formatOptionalTime(p.ConfirmedAt),
	}
	if p.Package != nil {
		pkg := mapPackageToResponse(p.Package)
		response.Package = &pkg
	}
	return response
}

func mapPurchasesToResponse(purchases []*purchase.Purchase) []PurchaseResponse {
	response := make([]PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		response = append(response, mapPurchaseToResponse(p))
	}
	return response
}

func mapOwnerToResponse(o *owner.Owner) OwnerResponse {
	return OwnerResponse{
		UserID:                  o.UserID,
		PhoneNumber:             o.PhoneNumber,
		ProfilePictureURL:       o.ProfilePictureURL,
		VerificationStatus:      string(o.VerificationStatus),
		VerificationDocumentURL: o.VerificationDocumentURL,
		VerificationSelfieURL:   o.VerificationSelfieURL,
		VerificationSubmittedAt: formatOptionalTime(o.VerificationSubmittedAt),
		VerifiedAt:              formatOptionalTime(o.VerifiedAt),
	}
}

func mapProfileToResponse(p *service.Profile) ProfileResponse {
	response := ProfileResponse{
		ID:        p.User.ID,
		Email:     p.User.Email,
		Name:      p.User.Name,
		Role:      string(p.User.Role),
		CreatedAt: formatTime(p.User.CreatedAt),
		Balance:   p.Balance,
	}
	if p.Owner != nil {
		o := mapOwnerToResponse(p.Owner)
		response.Owner = &o
	}
	if p.Client != nil {
		response.ProfilePictureURL = p.Client.ProfilePictureURL
		response.FavoriteIDs = make([]string, 0, len(p.FavoriteIDs))
		for _, id := range p.FavoriteIDs {
			response.FavoriteIDs = append(response.FavoriteIDs, id.String())
		}
	}
	return response
}

func mapMessageToResponse(m *messaging.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID,
		Text:           m.Text,
		IsRead:         m.IsRead,
		CreatedAt:      formatTime(m.CreatedAt),
	}
}

func mapConversationToResponse(c *messaging.Conversation) ConversationResponse {
	response := ConversationResponse{
		ID:            c.ID.String(),
		PropertyID:    c.PropertyID.String(),
		PropertyTitle: c.PropertyTitle,
		Participants:  []string{c.ParticipantA, c.ParticipantB},
		CreatedAt:     formatTime(c.CreatedAt),
		UpdatedAt:     formatTime(c.UpdatedAt),
	}
	if c.LastMessage != nil {
		m := mapMessageToResponse(c.LastMessage)
		response.LastMessage = &m
	}
	return response
}

func mapActivityToResponse(events []*activity.Event) []ActivityResponse {
	response := make([]ActivityResponse, 0, len(events))
	for _, e := range events {
		response = append(response, ActivityResponse{
			EventID:     e.EventID,
			Type:        string(e.Type),
			OwnerID:     e.OwnerID,
			ActorID:     e.ActorID,
			SubjectID:   e.SubjectID,
			OccurredAt:  formatTime(e.OccurredAt),
			LedgerEntry: mapOptionalEntry(e.Ledger),
			Details:     e.Details,
		})
	}
	return response
}
