package shared

// Role is the marketplace role attached to an authenticated identity
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// Caller is the authenticated identity performing an operation. It is passed explicitly
// into every workflow; nothing in the core reads it from ambient request state.
type Caller struct {
	UserID        string
	Role          Role
	CorrelationID string
}

// Require returns ErrForbidden unless the caller holds one of roles
func (c Caller) Require(roles ...Role) error {
	if c.UserID == "" {
		return ErrForbidden{Reason: "unauthenticated caller"}
	}
	for _, r := range roles {
		if c.Role == r {
			return nil
		}
	}
	return ErrForbidden{Reason: "role " + string(c.Role) + " is not allowed"}
}
