package listing

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// Status is the availability of a listing
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusUnavailable Status = "UNAVAILABLE"
)

const (
	MinTitleLength   = 10
	MinAddressLength = 10
)

// Listing is a rental unit published by an owner. Listings are never deleted, only deactivated.
type Listing struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Status      Status    `json:"status"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Price       int64     `json:"price"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Area        int       `json:"area"`
	ImageURLs   []string  `json:"image_urls"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Draft carries the attributes an owner submits when publishing
type Draft struct {
	Title       string
	Description string
	Address     string
	Price       int64
	Bedrooms    int
	Bathrooms   int
	Area        int
	ImageURLs   []string
}

func (d Draft) Validate() error {
	var v shared.Validator
	v.Check(utf8.RuneCountInString(strings.TrimSpace(d.Title)) >= MinTitleLength, "title", "must be at least 10 characters")
	v.Check(strings.TrimSpace(d.Description) != "", "description", "is required")
	v.Check(utf8.RuneCountInString(strings.TrimSpace(d.Address)) >= MinAddressLength, "address", "must be at least 10 characters")
	v.Check(d.Price > 0, "price", "must be positive")
	v.Check(d.Bedrooms >= 0, "bedrooms", "must not be negative")
	v.Check(d.Bathrooms >= 0, "bathrooms", "must not be negative")
	v.Check(d.Area > 0, "area", "must be positive")
	v.Check(len(d.ImageURLs) > 0, "image_urls", "at least one image is required")
	for _, u := range d.ImageURLs {
		v.Check(shared.IsHTTPURL(u), "image_urls", "must be absolute http(s) URLs")
	}
	return v.Err()
}

// NewListing builds an AVAILABLE listing from a validated draft
func NewListing(ownerID string, d Draft, now time.Time) *Listing {
	images := make([]string, len(d.ImageURLs))
	copy(images, d.ImageURLs)

	return &Listing{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Status:      StatusAvailable,
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Address:     strings.TrimSpace(d.Address),
		Price:       d.Price,
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		Area:        d.Area,
		ImageURLs:   images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (l *Listing) IsOwnedBy(userID string) bool {
	return l.OwnerID == userID
}

// Deactivate reports whether the status actually changed
func (l *Listing) Deactivate(now time.Time) bool {
	if l.Status == StatusUnavailable {
		return false
	}
	l.Status = StatusUnavailable
	l.UpdatedAt = now
	return true
}

func (l *Listing) Reactivate(now time.Time) error {
	if l.Status != StatusUnavailable {
		return shared.ErrInvalidState{Entity: "listing", Current: string(l.Status), Action: "reactivate"}
	}
	l.Status = StatusAvailable
	l.UpdatedAt = now
	return nil
}
