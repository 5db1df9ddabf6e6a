package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/domain"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations. The ledger_entries table carries a unique index on
// (reference_id, type) as the last line of defence against double credits.
const uniqueViolation = "23505"

// LedgerRepo implements ports.LedgerRepository.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// Create appends a ledger entry within a transaction. Returns
// ports.ErrDuplicateLedgerEntry when an entry with the same
// (reference_id, type) already exists.
func (r *LedgerRepo) Create(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (id, user_id, type, amount, description, status, reference_id, balance_before, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		entry.ID, entry.UserID, string(entry.Type), entry.Amount, entry.Description,
		string(entry.Status), entry.ReferenceID, entry.BalanceBefore, entry.BalanceAfter, entry.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("insert ledger entry: %w", ports.ErrDuplicateLedgerEntry)
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// ExistsByReference reports whether an entry already exists for the given
// reference and type.
func (r *LedgerRepo) ExistsByReference(ctx context.Context, referenceID string, t domain.LedgerType) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ledger_entries WHERE reference_id = $1 AND type = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, referenceID, string(t)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check ledger entry exists: %w", err)
	}
	return exists, nil
}
