package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TopUpStatus represents the lifecycle state of a top-up intent.
type TopUpStatus string

const (
	TopUpStatusPending   TopUpStatus = "pending"
	TopUpStatusChallenge TopUpStatus = "challenge"
	TopUpStatusSuccess   TopUpStatus = "success"
	TopUpStatusFailed    TopUpStatus = "failed"
	TopUpStatusExpired   TopUpStatus = "expired"
	TopUpStatusCancelled TopUpStatus = "cancelled"
)

// Gateway transaction_status vocabulary (Midtrans).
const (
	GatewayStatusCapture    = "capture"
	GatewayStatusSettlement = "settlement"
	GatewayStatusPending    = "pending"
	GatewayStatusDeny       = "deny"
	GatewayStatusExpire     = "expire"
	GatewayStatusCancel     = "cancel"
)

// Gateway fraud_status vocabulary.
const (
	FraudStatusAccept    = "accept"
	FraudStatusChallenge = "challenge"
)

// Top-up amount policy, in minor currency units (IDR).
const (
	MinTopUpAmount = int64(1_000)
	MaxTopUpAmount = int64(10_000_000)
)

// TopUp represents a wallet top-up intent awaiting payment completion.
// Once Status reaches success it is terminal: no further transition is
// permitted and the wallet has been credited exactly once.
type TopUp struct {
	ID            uuid.UUID     `json:"id"`
	UserID        int64         `json:"user_id"`
	OrderID       string        `json:"order_id"`
	Amount        int64         `json:"amount"` // Minor units (IDR)
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentType   string        `json:"payment_type"` // Gateway channel, e.g. "bank_transfer"
	Status        TopUpStatus   `json:"status"`
	SnapToken     *string       `json:"snap_token,omitempty"`
	RedirectURL   *string       `json:"redirect_url,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsTerminal returns true if no further status transition is permitted.
func (t *TopUp) IsTerminal() bool {
	switch t.Status {
	case TopUpStatusSuccess, TopUpStatusFailed, TopUpStatusExpired, TopUpStatusCancelled:
		return true
	}
	return false
}

// IsSuccessful returns true if the wallet has been credited for this intent.
func (t *TopUp) IsSuccessful() bool {
	return t.Status == TopUpStatusSuccess
}

// IsRefreshable returns true if a live gateway status query is worthwhile.
func (t *TopUp) IsRefreshable() bool {
	return t.Status == TopUpStatusPending || t.Status == TopUpStatusChallenge
}

// MapGatewayStatus maps a gateway (transaction_status, fraud_status) pair to
// the internal target status. ok is false for unrecognized statuses and for
// capture events with an unknown fraud flag: callers must perform no
// transition in that case (fail open, do not guess).
func MapGatewayStatus(transactionStatus, fraudStatus string) (TopUpStatus, bool) {
	switch transactionStatus {
	case GatewayStatusCapture:
		switch fraudStatus {
		case FraudStatusAccept:
			return TopUpStatusSuccess, true
		case FraudStatusChallenge:
			return TopUpStatusChallenge, true
		}
		return "", false
	case GatewayStatusSettlement:
		return TopUpStatusSuccess, true
	case GatewayStatusPending:
		return TopUpStatusPending, true
	case GatewayStatusDeny:
		return TopUpStatusFailed, true
	case GatewayStatusExpire:
		return TopUpStatusExpired, true
	case GatewayStatusCancel:
		return TopUpStatusCancelled, true
	}
	return "", false
}

// NewOrderID generates a globally unique order identifier for a top-up
// intent. The random suffix is wide enough that concurrent requests from
// the same user within the same second cannot collide.
func NewOrderID(userID int64, now time.Time) string {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// uuid so order creation cannot be blocked.
		return fmt.Sprintf("TOPUP-%d-%d-%s", userID, now.Unix(), uuid.NewString())
	}
	return fmt.Sprintf("TOPUP-%d-%d-%s", userID, now.Unix(), hex.EncodeToString(suffix))
}

// ValidateAmount checks the top-up amount against the policy bounds.
func ValidateAmount(amount int64) error {
	if amount < MinTopUpAmount || amount > MaxTopUpAmount {
		return fmt.Errorf("amount %d outside allowed range [%d, %d]", amount, MinTopUpAmount, MaxTopUpAmount)
	}
	return nil
}
