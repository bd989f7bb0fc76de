package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/asc-rental-marketplace/internal/domain/account"
	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/domain/user"
)

// RegisterUser creates the user row for an authenticated identity together with its role profile.
// Owners also get an empty coin account.
func (e *Engine) RegisterUser(ctx context.Context, caller shared.Caller, reg user.Registration) (*user.User, error) {
	if err := caller.Require(shared.RoleClient, shared.RoleOwner); err != nil {
		return nil, err
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	logger := e.loggerFor(caller, "register_user")

	now := e.clock()
	u, err := user.NewUser(caller, reg, now)
	if err != nil {
		return nil, err
	}

	err = e.runner.InTx(ctx, func(ctx context.Context, s Stores) error {
		if _, err := s.Users.GetByID(ctx, caller.UserID); err == nil {
			return shared.ErrInvalidState{Entity: "user", Current: "REGISTERED", Action: "register"}
		} else if !errors.Is(err, shared.ErrNotFound{}) {
			return err
		}

		if err := s.Users.Create(ctx, u); err != nil {
			return err
		}

		switch u.Role {
		case shared.RoleOwner:
			if err := s.Owners.Create(ctx, owner.NewOwner(u.ID)); err != nil {
				return err
			}
			return s.Accounts.Create(ctx, account.NewAccount(u.ID, now))
		default:
			return s.Users.CreateClient(ctx, &user.Client{UserID: u.ID})
		}
	})
	if err != nil {
		logger.Info("Register user failed", "error", err)
		return nil, err
	}

	logger.Info("User registered", "role", string(u.Role))
	return u, nil
}

// UpdateProfile changes the fields set in upd. Phone numbers exist only on owner profiles.
// An empty picture URL clears the picture.
func (e *Engine) UpdateProfile(ctx context.Context, caller shared.Caller, upd user.ProfileUpdate) (*user.User, error) {
	if err := caller.Require(anyRole...); err != nil {
		return nil, err
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	var result *user.User
	err := e.runner.InTx(ctx, func(ctx context.Context, s Stores) error {
		u, err := s.Users.GetByID(ctx, caller.UserID)
		if err != nil {
			return err
		}

		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			if err := s.Users.UpdateName(ctx, u.ID, name); err != nil {
				return err
			}
			u.Name = name
		}

		switch u.Role {
		case shared.RoleOwner:
			if upd.PhoneNumber == nil && upd.ProfilePictureURL == nil {
				break
			}
			o, err := s.Owners.LockForUpdate(ctx, u.ID)
			if err != nil {
				return err
			}
			phone, picture := o.PhoneNumber, o.ProfilePictureURL
			if upd.PhoneNumber != nil {
				phone = strings.TrimSpace(*upd.PhoneNumber)
			}
			if upd.ProfilePictureURL != nil {
				picture = *upd.ProfilePictureURL
			}
			if err := s.Owners.UpdateContact(ctx, u.ID, phone, picture); err != nil {
				return err
			}
		case shared.RoleClient:
			if upd.PhoneNumber != nil {
				return shared.NewValidationError("phone_number", "only owners have a phone number")
			}
			if upd.ProfilePictureURL != nil {
				if err := s.Users.UpdateClientPicture(ctx, u.ID, *upd.ProfilePictureURL); err != nil {
					return err
				}
			}
		default:
			if upd.PhoneNumber != nil || upd.ProfilePictureURL != nil {
				return shared.NewValidationError("profile", "admins only have a name")
			}
		}

		result = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
