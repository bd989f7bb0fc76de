package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/asc-rental-marketplace/internal/domain/owner"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/platform/persistence"
)

const ownerColumns = `user_id, phone_number, profile_picture_url, verification_status, verification_document_url, verification_selfie_url, verification_submitted_at, verified_at`

// OwnerRepository implements the owner.Repository interface for PostgreSQL
type OwnerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewOwnerRepository(logger *slog.Logger, db *persistence.PostgresDB) owner.Repository {
	return &OwnerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *OwnerRepository) WithTx(tx pgx.Tx) owner.Repository {
	return &OwnerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *OwnerRepository) Create(ctx context.Context, o *owner.Owner) error {
	query := `
		INSERT INTO owners (user_id, phone_number, profile_picture_url, verification_status)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.querier.Exec(ctx, query, o.UserID, o.PhoneNumber, o.ProfilePictureURL, o.VerificationStatus); err != nil {
		r.logger.Error("Failed to create owner", "user_id", o.UserID, "error", err)
		return fmt.Errorf("failed to create owner: %w", err)
	}
	return nil
}

func (r *OwnerRepository) GetByUserID(ctx context.Context, userID string) (*owner.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE user_id = $1`
	return r.getOne(ctx, query, userID, "get owner")
}

func (r *OwnerRepository) LockForUpdate(ctx context.Context, userID string) (*owner.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE user_id = $1 FOR UPDATE`
	return r.getOne(ctx, query, userID, "lock owner for update")
}

func (r *OwnerRepository) getOne(ctx context.Context, query, userID, op string) (*owner.Owner, error) {
	o, err := scanOwner(r.querier.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound{Entity: "owner", ID: userID}
		}
		r.logger.Error("Failed to "+op, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return o, nil
}

func (r *OwnerRepository) SaveVerificationSubmission(ctx context.Context, o *owner.Owner) error {
	query := `
		UPDATE owners
		SET phone_number = $1,
			verification_status = $2,
			verification_document_url = $3,
			verification_selfie_url = $4,
			verification_submitted_at = $5,
			verified_at = $6
		WHERE user_id = $7
	`

	result, err := r.querier.Exec(ctx, query,
		o.PhoneNumber,
		o.VerificationStatus,
		o.VerificationDocumentURL,
		o.VerificationSelfieURL,
		o.VerificationSubmittedAt,
		o.VerifiedAt,
		o.UserID,
	)
	if err != nil {
		r.logger.Error("Failed to save verification submission", "user_id", o.UserID, "error", err)
		return fmt.Errorf("failed to save verification submission: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound{Entity: "owner", ID: o.UserID}
	}
	return nil
}

func (r *OwnerRepository) ConfirmVerification(ctx context.Context, userID string, verifiedAt time.Time) (bool, error) {
	query := `
		UPDATE owners
		SET verification_status = $1, verified_at = $2
		WHERE user_id = $3 AND verification_status = $4
	`

	result, err := r.querier.Exec(ctx, query, owner.VerificationVerified, verifiedAt, userID, owner.VerificationPending)
	if err != nil {
		r.logger.Error("Failed to confirm verification", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to confirm verification: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

func (r *OwnerRepository) UpdateContact(ctx context.Context, userID, phoneNumber, profilePictureURL string) error {
	query := `
		UPDATE owners
		SET phone_number = $1, profile_picture_url = $2
		WHERE user_id = $3
	`

	result, err := r.querier.Exec(ctx, query, phoneNumber, profilePictureURL, userID)
	if err != nil {
		r.logger.Error("Failed to update owner contact", "user_id", userID, "error", err)
		return fmt.Errorf("failed to update owner contact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound{Entity: "owner", ID: userID}
	}
	return nil
}

// ListPendingVerification returns owners waiting for review, oldest submission first
func (r *OwnerRepository) ListPendingVerification(ctx context.Context) ([]*owner.Owner, error) {
	query := `
		SELECT ` + ownerColumns + `
		FROM owners
		WHERE verification_status = $1
		ORDER BY verification_submitted_at ASC
	`

	rows, err := r.querier.Query(ctx, query, owner.VerificationPending)
	if err != nil {
		r.logger.Error("Failed to list pending verifications", "error", err)
		return nil, fmt.Errorf("failed to list pending verifications: %w", err)
	}
	defer rows.Close()

	owners := make([]*owner.Owner, 0)
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			r.logger.Error("Failed to scan owner", "error", err)
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over owners", "error", err)
		return nil, fmt.Errorf("error iterating over owners: %w", err)
	}
	return owners, nil
}

func (r *OwnerRepository) CountPendingVerification(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM owners WHERE verification_status = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, owner.VerificationPending).Scan(&count); err != nil {
		r.logger.Error("Failed to count pending verifications", "error", err)
		return 0, fmt.Errorf("failed to count pending verifications: %w", err)
	}
	return count, nil
}

func scanOwner(row pgx.Row) (*owner.Owner, error) {
	var o owner.Owner
	err := row.Scan(
		&o.UserID,
		&o.PhoneNumber,
		&o.ProfilePictureURL,
		&o.VerificationStatus,
		&o.VerificationDocumentURL,
		&o.VerificationSelfieURL,
		&o.VerificationSubmittedAt,
		&o.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
