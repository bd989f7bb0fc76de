package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/asc-rental-marketplace/internal/domain/ledger"
	"github.com/asc-rental-marketplace/internal/platform/persistence"
)

// LedgerRepository implements the append-only ledger.Repository for PostgreSQL
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *LedgerRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &LedgerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *LedgerRepository) Append(ctx context.Context, entry *ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (id, owner_id, kind, amount, description, reference, balance_after, correlation_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		entry.ID,
		entry.OwnerID,
		entry.Kind,
		entry.Amount,
		entry.Description,
		entry.Reference,
		entry.BalanceAfter,
		entry.CorrelationID,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append ledger entry",
			"owner_id", entry.OwnerID,
			"kind", string(entry.Kind),
			"error", err,
		)
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

// ListByOwner returns one page of entries, newest first
func (r *LedgerRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*ledger.Entry, error) {
	query := `
		SELECT id, owner_id, kind, amount, description, reference, balance_after, correlation_id, created_at
		FROM ledger_entries
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list ledger entries", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*ledger.Entry, 0)
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(
			&e.ID,
			&e.OwnerID,
			&e.Kind,
			&e.Amount,
			&e.Description,
			&e.Reference,
			&e.BalanceAfter,
			&e.CorrelationID,
			&e.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan ledger entry", "error", err)
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over ledger entries", "error", err)
		return nil, fmt.Errorf("error iterating over ledger entries: %w", err)
	}

	return entries, nil
}

func (r *LedgerRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	query := `SELECT COUNT(*) FROM ledger_entries WHERE owner_id = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		r.logger.Error("Failed to count ledger entries", "owner_id", ownerID, "error", err)
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return count, nil
}
