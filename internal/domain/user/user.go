package user

import (
	"net/mail"
	"strings"
	"time"

	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// User is a registered marketplace identity. ID is the identity provider subject.
type User struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      shared.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// Client is the profile of a user holding the CLIENT role
type Client struct {
	UserID            string `json:"user_id"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

// Registration is submitted once per identity after sign-up
type Registration struct {
	Name  string
	Email string
}

func (r Registration) Validate() error {
	var v shared.Validator
	v.Check(strings.TrimSpace(r.Name) != "", "name", "is required")
	_, err := mail.ParseAddress(r.Email)
	v.Check(err == nil, "email", "must be a valid email address")
	return v.Err()
}

// NewUser builds a user for a CLIENT or OWNER registration. Admins are provisioned out of band.
func NewUser(caller shared.Caller, r Registration, now time.Time) (*User, error) {
	if caller.Role != shared.RoleClient && caller.Role != shared.RoleOwner {
		return nil, shared.ErrForbidden{Reason: "only clients and owners can self-register"}
	}
	return &User{
		ID:        caller.UserID,
		Email:     strings.ToLower(strings.TrimSpace(r.Email)),
		Name:      strings.TrimSpace(r.Name),
		Role:      caller.Role,
		CreatedAt: now,
	}, nil
}

// ProfileUpdate changes only the fields that are set
type ProfileUpdate struct {
	Name              *string
	PhoneNumber       *string
	ProfilePictureURL *string
}

func (p ProfileUpdate) Validate() error {
	var v shared.Validator
	if p.Name != nil {
		v.Check(strings.TrimSpace(*p.Name) != "", "name", "must not be empty")
	}
	if p.ProfilePictureURL != nil && *p.ProfilePictureURL != "" {
		v.Check(shared.IsHTTPURL(*p.ProfilePictureURL), "profile_picture_url", "must be an absolute http(s) URL")
	}
	return v.Err()
}
