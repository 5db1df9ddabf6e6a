package ports

import (
	"context"
	"time"

	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/domain"
)

// SnapRequest holds the details needed to open a hosted payment page for
// a top-up intent.
type SnapRequest struct {
	OrderID       string
	Amount        int64
	PaymentMethod domain.PaymentMethod
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// SnapResult is the gateway's issued token and hosted-page URL.
type SnapResult struct {
	Token       string
	RedirectURL string
}

// GatewayStatus is the gateway's view of a transaction, as returned by a
// status poll.
type GatewayStatus struct {
	OrderID           string
	TransactionStatus string
	FraudStatus       string
	PaymentType       string
	GrossAmount       string
}

// GatewayClient is the outbound adapter to the payment gateway.
type GatewayClient interface {
	// CreateTransaction requests a hosted-payment-page token. Exactly one
	// payment channel is enabled per request.
	CreateTransaction(ctx context.Context, req SnapRequest) (*SnapResult, error)
	// GetStatus queries the gateway for the current transaction status.
	GetStatus(ctx context.Context, orderID string) (*GatewayStatus, error)
}

// SignatureVerifier authenticates inbound gateway notifications.
type SignatureVerifier interface {
	// Verify recomputes the notification signature and compares it in
	// constant time against the supplied one.
	Verify(orderID, transactionStatus, grossAmount, signature string) bool
}

// OrderLock is an advisory per-order lease taken around reconciliation so
// the callback and polling paths do not contend on the database row lock.
// The row lock remains the correctness authority; lease failures degrade
// gracefully.
type OrderLock interface {
	// Acquire returns true if the lease was obtained.
	Acquire(ctx context.Context, orderID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, orderID string) error
}

// AuditService records audited payment events (fire-and-forget).
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// CreateTopUpRequest holds validated input for intent creation.
type CreateTopUpRequest struct {
	UserID        int64
	Amount        int64
	PaymentMethod domain.PaymentMethod
	ClientIP      string
}

// GatewayNotification is the payload of an inbound payment callback.
type GatewayNotification struct {
	OrderID           string
	TransactionStatus string
	FraudStatus       string
	PaymentType       string
	GrossAmount       string
	SignatureKey      string
	ClientIP          string
}

// ReconcileResult reports the outcome of applying a gateway status event.
type ReconcileResult struct {
	TopUp *domain.TopUp
	// AlreadyProcessed is true when the intent had already reached
	// success; the event was a no-op and is reported as such to the
	// gateway (not an error).
	AlreadyProcessed bool
	// Transitioned is true when the intent status changed.
	Transitioned bool
}

// TopUpService is the wallet top-up and reconciliation engine. It is the
// single authority allowed to credit a wallet.
type TopUpService interface {
	Create(ctx context.Context, req CreateTopUpRequest) (*domain.TopUp, error)
	HandleNotification(ctx context.Context, n GatewayNotification) (*ReconcileResult, error)
	Reconcile(ctx context.Context, orderID, transactionStatus, fraudStatus string) (*ReconcileResult, error)
	CheckStatus(ctx context.Context, orderID string) (*domain.TopUp, error)
	GetBalance(ctx context.Context, userID int64) (int64, error)
}
