package owner

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Repository defines owner profile and verification persistence
type Repository interface {
	Create(ctx context.Context, owner *Owner) error
	GetByUserID(ctx context.Context, userID string) (*Owner, error)
	LockForUpdate(ctx context.Context, userID string) (*Owner, error)
	SaveVerificationSubmission(ctx context.Context, owner *Owner) error

	// ConfirmVerification flips PENDING to VERIFIED in a single conditional write.
	// It reports false when no PENDING row matched.
	ConfirmVerification(ctx context.Context, userID string, verifiedAt time.Time) (bool, error)
	UpdateContact(ctx context.Context, userID, phoneNumber, profilePictureURL string) error
	ListPendingVerification(ctx context.Context) ([]*Owner, error)
	CountPendingVerification(ctx context.Context) (int64, error)
	WithTx(tx pgx.Tx) Repository
}
