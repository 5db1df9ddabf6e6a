package dto

import (
	"strconv"
	"time"

	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/domain"
)

// CreateTopUpRequest is the payload for POST /api/v1/topups.
type CreateTopUpRequest struct {
	UserID        int64  `json:"user_id" binding:"required,gt=0"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// NotificationRequest is the gateway callback payload. Field names follow
// the Midtrans notification schema.
type NotificationRequest struct {
	OrderID           string `json:"order_id" binding:"required"`
	TransactionStatus string `json:"transaction_status" binding:"required"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	GrossAmount       string `json:"gross_amount" binding:"required"`
	SignatureKey      string `json:"signature_key" binding:"required"`
}

// TopUpResponse is the client-facing view of a top-up intent.
type TopUpResponse struct {
	OrderID         string  `json:"order_id"`
	Amount          int64   `json:"amount"`
	FormattedAmount string  `json:"formatted_amount"`
	PaymentMethod   string  `json:"payment_method"`
	Status          string  `json:"status"`
	StatusText      string  `json:"status_text"`
	SnapToken       *string `json:"snap_token,omitempty"`
	RedirectURL     *string `json:"redirect_url,omitempty"`
	PaidAt          *string `json:"paid_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// BalanceResponse is the wallet balance view.
type BalanceResponse struct {
	UserID         int64  `json:"user_id"`
	Saldo          int64  `json:"saldo"`
	FormattedSaldo string `json:"formatted_saldo"`
}

// ToTopUpResponse converts a domain.TopUp to its DTO.
func ToTopUpResponse(t *domain.TopUp) TopUpResponse {
	resp := TopUpResponse{
		OrderID:         t.OrderID,
		Amount:          t.Amount,
		FormattedAmount: FormatRupiah(t.Amount),
		PaymentMethod:   string(t.PaymentMethod),
		Status:          string(t.Status),
		StatusText:      StatusText(t.Status),
		SnapToken:       t.SnapToken,
		RedirectURL:     t.RedirectURL,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
	if t.PaidAt != nil {
		s := t.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &s
	}
	return resp
}

// StatusText maps a top-up status to its display label.
func StatusText(status domain.TopUpStatus) string {
	switch status {
	case domain.TopUpStatusSuccess:
		return "Success"
	case domain.TopUpStatusFailed:
		return "Failed"
	case domain.TopUpStatusExpired:
		return "Expired"
	case domain.TopUpStatusCancelled:
		return "Cancelled"
	case domain.TopUpStatusChallenge:
		return "Challenge"
	}
	return "Pending"
}

// FormatRupiah renders an IDR amount with dot thousands separators,
// e.g. 1500000 -> "Rp 1.500.000".
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}
	return "Rp " + sign + string(out)
}
