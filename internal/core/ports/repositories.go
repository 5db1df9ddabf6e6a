package ports

import (
	"context"
	"errors"
	"time"

	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ErrDuplicateLedgerEntry is returned by LedgerRepository.Create when an
// entry with the same (reference_id, type) already exists. The unique
// constraint is defence in depth behind the reconciliation idempotency
// check.
var ErrDuplicateLedgerEntry = errors.New("ledger entry already exists for reference")

// TopUpRepository defines persistence operations for top-up intents.
// Methods accepting pgx.Tx are used inside transaction blocks for
// pessimistic locking.
type TopUpRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.TopUp) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.TopUp, error)
	GetByOrderIDForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*domain.TopUp, error)
	AttachGatewayResult(ctx context.Context, tx pgx.Tx, orderID, snapToken, redirectURL string) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, orderID string, status domain.TopUpStatus, paidAt *time.Time) error
}

// UserRepository defines the wallet-side persistence operations the core
// depends on. The surrounding CRUD layer owns the users table; the core
// never touches anything beyond the balance.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.User, error)
	IncrementBalance(ctx context.Context, tx pgx.Tx, id int64, amount int64) error
}

// LedgerRepository appends immutable balance-affecting records.
type LedgerRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	ExistsByReference(ctx context.Context, referenceID string, t domain.LedgerType) (bool, error)
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
