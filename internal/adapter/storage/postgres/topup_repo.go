package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const topUpColumns = `id, user_id, order_id, amount, payment_method, payment_type, status, snap_token, redirect_url, paid_at, created_at, updated_at`

// TopUpRepo implements ports.TopUpRepository.
type TopUpRepo struct {
	pool Pool
}

// NewTopUpRepo creates a new TopUpRepo.
func NewTopUpRepo(pool Pool) *TopUpRepo {
	return &TopUpRepo{pool: pool}
}

// Create inserts a new top-up intent within a transaction.
func (r *TopUpRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.TopUp) error {
	query := `INSERT INTO top_ups (id, user_id, order_id, amount, payment_method, payment_type, status, snap_token, redirect_url, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.UserID, t.OrderID, t.Amount, string(t.PaymentMethod), t.PaymentType,
		string(t.Status), t.SnapToken, t.RedirectURL, t.PaidAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert top up: %w", err)
	}
	return nil
}

// GetByOrderID fetches a top-up intent by order ID (without locking).
func (r *TopUpRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.TopUp, error) {
	query := `SELECT ` + topUpColumns + ` FROM top_ups WHERE order_id = $1`

	t, err := scanTopUp(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get top up by order id: %w", err)
	}
	return t, nil
}

// GetByOrderIDForUpdate fetches a top-up intent with pessimistic locking.
// This MUST be called within a transaction.
func (r *TopUpRepo) GetByOrderIDForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*domain.TopUp, error) {
	query := `SELECT ` + topUpColumns + ` FROM top_ups WHERE order_id = $1 FOR UPDATE`

	t, err := scanTopUp(tx.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get top up for update: %w", err)
	}
	return t, nil
}

// AttachGatewayResult stores the issued snap token and redirect URL.
func (r *TopUpRepo) AttachGatewayResult(ctx context.Context, tx pgx.Tx, orderID, snapToken, redirectURL string) error {
	query := `UPDATE top_ups SET snap_token = $1, redirect_url = $2, updated_at = NOW() WHERE order_id = $3`

	tag, err := tx.Exec(ctx, query, snapToken, redirectURL, orderID)
	if err != nil {
		return fmt.Errorf("attach gateway result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("top up not found: %s", orderID)
	}
	return nil
}

// UpdateStatus transitions a top-up intent. paid_at is only ever set, never
// cleared: a nil paidAt leaves any existing value untouched.
func (r *TopUpRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID string, status domain.TopUpStatus, paidAt *time.Time) error {
	query := `UPDATE top_ups SET status = $1, paid_at = COALESCE($2, paid_at), updated_at = NOW() WHERE order_id = $3`

	tag, err := tx.Exec(ctx, query, string(status), paidAt, orderID)
	if err != nil {
		return fmt.Errorf("update top up status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("top up not found: %s", orderID)
	}
	return nil
}

func scanTopUp(row pgx.Row) (*domain.TopUp, error) {
	t := &domain.TopUp{}
	var method, status string
	err := row.Scan(
		&t.ID, &t.UserID, &t.OrderID, &t.Amount, &method, &t.PaymentType,
		&status, &t.SnapToken, &t.RedirectURL, &t.PaidAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.PaymentMethod = domain.PaymentMethod(method)
	t.Status = domain.TopUpStatus(status)
	return t, nil
}
