package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerType represents the kind of balance-affecting event.
type LedgerType string

const (
	LedgerTypeTopup     LedgerType = "topup"
	LedgerTypeEmergency LedgerType = "emergency"
	LedgerTypeRegular   LedgerType = "regular"
)

// LedgerStatus represents the outcome recorded on a ledger entry.
type LedgerStatus string

const (
	LedgerStatusSuccess LedgerStatus = "success"
	LedgerStatusFailed  LedgerStatus = "failed"
)

// LedgerEntry is an immutable record of a balance-affecting event. Entries
// are appended once, at the moment of reconciliation, and never updated.
// BalanceBefore/BalanceAfter snapshot the wallet at that moment; they are
// recorded, not recomputed later.
type LedgerEntry struct {
	ID            uuid.UUID    `json:"id"`
	UserID        int64        `json:"user_id"`
	Type          LedgerType   `json:"type"`
	Amount        int64        `json:"amount"` // Minor units (IDR)
	Description   string       `json:"description"`
	Status        LedgerStatus `json:"status"`
	ReferenceID   *string      `json:"reference_id,omitempty"` // order_id for top-ups
	BalanceBefore int64        `json:"balance_before"`
	BalanceAfter  int64        `json:"balance_after"`
	CreatedAt     time.Time    `json:"created_at"`
}
