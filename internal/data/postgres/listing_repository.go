package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/asc-rental-marketplace/internal/domain/listing"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/platform/persistence"
)

const listingColumns = `id, owner_id, status, title, description, address, price, bedrooms, bathrooms, area, image_urls, created_at, updated_at`

// ListingRepository implements the listing.Repository interface for PostgreSQL
type ListingRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewListingRepository(logger *slog.Logger, db *persistence.PostgresDB) listing.Repository {
	return &ListingRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *ListingRepository) WithTx(tx pgx.Tx) listing.Repository {
	return &ListingRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *ListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.querier.Exec(ctx, query,
		l.ID,
		l.OwnerID,
		l.Status,
		l.Title,
		l.Description,
		l.Address,
		l.Price,
		l.Bedrooms,
		l.Bathrooms,
		l.Area,
		l.ImageURLs,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create listing", "owner_id", l.OwnerID, "error", err)
		return fmt.Errorf("failed to create listing: %w", err)
	}

	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	return r.getOne(ctx, query, id, "get listing")
}

func (r *ListingRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id, "lock listing for update")
}

func (r *ListingRepository) getOne(ctx context.Context, query string, id uuid.UUID, op string) (*listing.Listing, error) {
	l, err := scanListing(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound{Entity: "listing", ID: id.String()}
		}
		r.logger.Error("Failed to "+op, "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return l, nil
}

func (r *ListingRepository) UpdateStatus(ctx context.Context, l *listing.Listing) error {
	query := `
		UPDATE listings
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, l.Status, l.UpdatedAt, l.ID)
	if err != nil {
		r.logger.Error("Failed to update listing status", "id", l.ID.String(), "status", string(l.Status), "error", err)
		return fmt.Errorf("failed to update listing status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound{Entity: "listing", ID: l.ID.String()}
	}
	return nil
}

// likeEscaper makes LIKE metacharacters in a search term match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search builds its WHERE clause from the filter; only AVAILABLE listings are ever returned
func (r *ListingRepository) Search(ctx context.Context, filter listing.SearchFilter) ([]*listing.Listing, int64, error) {
	conditions := []string{"status = $1"}
	args := []interface{}{listing.StatusAvailable}

	if term := strings.TrimSpace(filter.Term); term != "" {
		args = append(args, likeEscaper.Replace(term))
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			`(title ILIKE '%%' || $%d || '%%' ESCAPE '\' OR address ILIKE '%%' || $%d || '%%' ESCAPE '\')`, n, n))
	}
	if filter.MinPrice > 0 {
		args = append(args, filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice > 0 {
		args = append(args, filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("price <= $%d", len(args)))
	}
	if filter.MinBedrooms > 0 {
		args = append(args, filter.MinBedrooms)
		conditions = append(conditions, fmt.Sprintf("bedrooms >= $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM listings WHERE ` + where
	if err := r.querier.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count listings", "error", err)
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	pageArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		listingColumns, where, len(args)+1, len(args)+2)

	listings, err := r.list(ctx, "search listings", query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// ListByOwner returns every listing of the owner regardless of status, newest first
func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*listing.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE owner_id = $1 ORDER BY created_at DESC, id`
	return r.list(ctx, "list owner listings", query, ownerID)
}

// ListByIDs returns the listings among ids that exist, newest first
func (r *ListingRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*listing.Listing, error) {
	if len(ids) == 0 {
		return []*listing.Listing{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = ANY($1::uuid[]) ORDER BY created_at DESC, id`
	return r.list(ctx, "list listings by ids", query, keys)
}

func (r *ListingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM listings`).Scan(&count); err != nil {
		r.logger.Error("Failed to count all listings", "error", err)
		return 0, fmt.Errorf("failed to count all listings: %w", err)
	}
	return count, nil
}

func (r *ListingRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]*listing.Listing, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to "+op, "error", err)
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	listings := make([]*listing.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			r.logger.Error("Failed to scan listing", "error", err)
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over listings", "error", err)
		return nil, fmt.Errorf("error iterating over listings: %w", err)
	}
	return listings, nil
}

func scanListing(row pgx.Row) (*listing.Listing, error) {
	var l listing.Listing
	err := row.Scan(
		&l.ID,
		&l.OwnerID,
		&l.Status,
		&l.Title,
		&l.Description,
		&l.Address,
		&l.Price,
		&l.Bedrooms,
		&l.Bathrooms,
		&l.Area,
		&l.ImageURLs,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
