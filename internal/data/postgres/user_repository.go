package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/domain/user"
	"github.com/asc-rental-marketplace/internal/platform/persistence"
)

const (
	sqlStateUniqueViolation = "23505"

	usersPrimaryKey  = "users_pkey"
	usersEmailUnique = "users_email_key"
)

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewUserRepository(logger *slog.Logger, db *persistence.PostgresDB) user.Repository {
	return &UserRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *UserRepository) WithTx(tx pgx.Tx) user.Repository {
	return &UserRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.querier.Exec(ctx, query, u.ID, u.Email, u.Name, u.Role, u.CreatedAt); err != nil {
		if conflict := userConflict(err); conflict != nil {
			r.logger.Info("User already exists", "id", u.ID, "error", err)
			return conflict
		}
		r.logger.Error("Failed to create user", "id", u.ID, "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// userConflict maps unique violations on users to domain errors. A racing registration of the
// same identity hits the primary key; a second identity reusing an email hits the email key.
func userConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != sqlStateUniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case usersEmailUnique:
		return shared.NewValidationError("email", "is already registered")
	case usersPrimaryKey:
		return shared.ErrInvalidState{Entity: "user", Current: "REGISTERED", Action: "register"}
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := `
		SELECT id, email, name, role, created_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	err := r.querier.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound{Entity: "user", ID: id}
		}
		r.logger.Error("Failed to get user", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) UpdateName(ctx context.Context, id, name string) error {
	result, err := r.querier.Exec(ctx, `UPDATE users SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		r.logger.Error("Failed to update user name", "id", id, "error", err)
		return fmt.Errorf("failed to update user name: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound{Entity: "user", ID: id}
	}
	return nil
}

func (r *UserRepository) CountByRoles(ctx context.Context, roles ...shared.Role) (int64, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	var count int64
	if err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = ANY($1)`, names).Scan(&count); err != nil {
		r.logger.Error("Failed to count users", "error", err)
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *UserRepository) CreateClient(ctx context.Context, c *user.Client) error {
	query := `INSERT INTO clients (user_id, profile_picture_url) VALUES ($1, $2)`

	if _, err := r.querier.Exec(ctx, query, c.UserID, c.ProfilePictureURL); err != nil {
		r.logger.Error("Failed to create client", "user_id", c.UserID, "error", err)
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *UserRepository) GetClient(ctx context.Context, userID string) (*user.Client, error) {
	query := `SELECT user_id, profile_picture_url FROM clients WHERE user_id = $1`

	var c user.Client
	if err := r.querier.QueryRow(ctx, query, userID).Scan(&c.UserID, &c.ProfilePictureURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound{Entity: "client", ID: userID}
		}
		r.logger.Error("Failed to get client", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

func (r *UserRepository) UpdateClientPicture(ctx context.Context, userID, profilePictureURL string) error {
	result, err := r.querier.Exec(ctx, `UPDATE clients SET profile_picture_url = $1 WHERE user_id = $2`, profilePictureURL, userID)
	if err != nil {
		r.logger.Error("Failed to update client picture", "user_id", userID, "error", err)
		return fmt.Errorf("failed to update client picture: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound{Entity: "client", ID: userID}
	}
	return nil
}
