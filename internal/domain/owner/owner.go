package owner

import (
	"strings"
	"time"

	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// VerificationStatus tracks identity verification. It only moves forward:
// NOT_VERIFIED -> PENDING -> VERIFIED.
type VerificationStatus string

const (
	VerificationNotVerified VerificationStatus = "NOT_VERIFIED"
	VerificationPending     VerificationStatus = "PENDING"
	VerificationVerified    VerificationStatus = "VERIFIED"
)

// Owner is the profile of a user holding the OWNER role
type Owner struct {
	UserID                  string             `json:"user_id"`
	PhoneNumber             string             `json:"phone_number,omitempty"`
	ProfilePictureURL       string             `json:"profile_picture_url,omitempty"`
	VerificationStatus      VerificationStatus `json:"verification_status"`
	VerificationDocumentURL string             `json:"verification_document_url,omitempty"`
	VerificationSelfieURL   string             `json:"verification_selfie_url,omitempty"`
	VerificationSubmittedAt *time.Time         `json:"verification_submitted_at,omitempty"`
	VerifiedAt              *time.Time         `json:"verified_at,omitempty"`
}

func NewOwner(userID string) *Owner {
	return &Owner{
		UserID:             userID,
		VerificationStatus: VerificationNotVerified,
	}
}

// VerificationSubmission is the document set an owner sends for review
type VerificationSubmission struct {
	PhoneNumber string
	DocumentURL string
	SelfieURL   string
}

func (s VerificationSubmission) Validate() error {
	var v shared.Validator
	v.Check(strings.TrimSpace(s.PhoneNumber) != "", "phone_number", "is required")
	v.Check(shared.IsHTTPURL(s.DocumentURL), "document_url", "must be an absolute http(s) URL")
	v.Check(shared.IsHTTPURL(s.SelfieURL), "selfie_url", "must be an absolute http(s) URL")
	return v.Err()
}

// SubmitVerification moves the owner to PENDING with the new documents.
// A VERIFIED owner may only resubmit when allowReverification is set.
func (o *Owner) SubmitVerification(s VerificationSubmission, now time.Time, allowReverification bool) error {
	if o.VerificationStatus == VerificationVerified && !allowReverification {
		return shared.ErrInvalidState{Entity: "verification", Current: string(o.VerificationStatus), Action: "submit"}
	}

	o.PhoneNumber = strings.TrimSpace(s.PhoneNumber)
	o.VerificationDocumentURL = s.DocumentURL
	o.VerificationSelfieURL = s.SelfieURL
	o.VerificationStatus = VerificationPending
	o.VerificationSubmittedAt = &now
	o.VerifiedAt = nil
	return nil
}
