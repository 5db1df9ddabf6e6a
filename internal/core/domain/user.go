package domain

import "time"

// User is the wallet owner. Saldo is the current balance in minor units
// (IDR); it is only ever changed by the reconciliation apply step, and the
// top-up flow only credits it.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Saldo     int64     `json:"saldo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
