package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/asc-rental-marketplace/internal/domain/purchase"
	"github.com/asc-rental-marketplace/internal/domain/shared"
	"github.com/asc-rental-marketplace/internal/platform/persistence"
)

const purchaseColumns = `id, owner_id, package_id, status, proof_of_payment_url, created_at, confirmed_at`

// PurchaseRepository implements the purchase.Repository interface for PostgreSQL
type PurchaseRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewPurchaseRepository(logger *slog.Logger, db *persistence.PostgresDB) purchase.Repository {
	return &PurchaseRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *PurchaseRepository) WithTx(tx pgx.Tx) purchase.Repository {
	return &PurchaseRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *PurchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		p.ID,
		p.OwnerID,
		p.PackageID,
		p.Status,
		p.ProofOfPaymentURL,
		p.CreatedAt,
		p.ConfirmedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create purchase", "owner_id", p.OwnerID, "package_id", p.PackageID, "error", err)
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`

	p, err := scanPurchase(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound{Entity: "purchase", ID: id.String()}
		}
		r.logger.Error("Failed to get purchase", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	return p, nil
}

// ConfirmPending is the compare-and-swap that makes confirmation exactly-once. A concurrent
// confirmer blocks on the row lock, re-evaluates the status predicate after the first commits,
// and matches nothing.
func (r *PurchaseRepository) ConfirmPending(ctx context.Context, id uuid.UUID, confirmedAt time.Time) (*purchase.Purchase, bool, error) {
	query := `
		UPDATE purchases
		SET status = 'CONFIRMED', confirmed_at = $2
		WHERE id = $1 AND status = 'PENDING'
		RETURNING ` + purchaseColumns

	p, err := scanPurchase(r.querier.QueryRow(ctx, query, id, confirmedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		r.logger.Error("Failed to confirm purchase", "id", id.String(), "error", err)
		return nil, false, fmt.Errorf("failed to confirm purchase: %w", err)
	}
	return p, true, nil
}

func (r *PurchaseRepository) ListByOwner(ctx context.Context, ownerID string) ([]*purchase.Purchase, error) {
	query := `
		SELECT p.id, p.owner_id, p.package_id, p.status, p.proof_of_payment_url, p.created_at, p.confirmed_at,
			k.id, k.name, k.coins, k.price, k.description
		FROM purchases p
		JOIN coin_packages k ON k.id = p.package_id
		WHERE p.owner_id = $1
		ORDER BY p.created_at DESC
	`
	return r.listWithPackage(ctx, "list owner purchases", query, ownerID)
}

func (r *PurchaseRepository) ListPending(ctx context.Context) ([]*purchase.Purchase, error) {
	query := `
		SELECT p.id, p.owner_id, p.package_id, p.status, p.proof_of_payment_url, p.created_at, p.confirmed_at,
			k.id, k.name, k.coins, k.price, k.description
		FROM purchases p
		JOIN coin_packages k ON k.id = p.package_id
		WHERE p.status = $1
		ORDER BY p.created_at ASC
	`
	return r.listWithPackage(ctx, "list pending purchases", query, purchase.StatusPending)
}

func (r *PurchaseRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	if err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM purchases WHERE status = $1`, purchase.StatusPending).Scan(&count); err != nil {
		r.logger.Error("Failed to count pending purchases", "error", err)
		return 0, fmt.Errorf("failed to count pending purchases: %w", err)
	}
	return count, nil
}

func (r *PurchaseRepository) listWithPackage(ctx context.Context, op, query string, args ...interface{}) ([]*purchase.Purchase, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to "+op, "error", err)
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	purchases := make([]*purchase.Purchase, 0)
	for rows.Next() {
		var p purchase.Purchase
		var pkg purchase.Package
		if err := rows.Scan(
			&p.ID,
			&p.OwnerID,
			&p.PackageID,
			&p.Status,
			&p.ProofOfPaymentURL,
			&p.CreatedAt,
			&p.ConfirmedAt,
			&pkg.ID,
			&pkg.Name,
			&pkg.Coins,
			&pkg.Price,
			&pkg.Description,
		); err != nil {
			r.logger.Error("Failed to scan purchase", "error", err)
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		p.Package = &pkg
		purchases = append(purchases, &p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over purchases", "error", err)
		return nil, fmt.Errorf("error iterating over purchases: %w", err)
	}
	return purchases, nil
}

func scanPurchase(row pgx.Row) (*purchase.Purchase, error) {
	var p purchase.Purchase
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.PackageID,
		&p.Status,
		&p.ProofOfPaymentURL,
		&p.CreatedAt,
		&p.ConfirmedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
