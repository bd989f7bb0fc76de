package user

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/asc-rental-marketplace/internal/domain/shared"
)

// Repository defines user and client profile persistence
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateName(ctx context.Context, id, name string) error
	CountByRoles(ctx context.Context, roles ...shared.Role) (int64, error)

	CreateClient(ctx context.Context, client *Client) error
	GetClient(ctx context.Context, userID string) (*Client, error)
	UpdateClientPicture(ctx context.Context, userID, profilePictureURL string) error
	WithTx(tx pgx.Tx) Repository
}
