package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited payment event.
type AuditAction string

const (
	AuditActionTopUpCreated       AuditAction = "TOPUP_CREATED"
	AuditActionNotificationOK     AuditAction = "NOTIFICATION_ACCEPTED"
	AuditActionSignatureRejected  AuditAction = "SIGNATURE_REJECTED"
	AuditActionUnknownStatus      AuditAction = "UNKNOWN_GATEWAY_STATUS"
	AuditActionTopUpCompleted     AuditAction = "TOPUP_COMPLETED"
	AuditActionGatewayQueryFailed AuditAction = "GATEWAY_QUERY_FAILED"
)

// AuditLog records a single audited payment event.
type AuditLog struct {
	ID        uuid.UUID   `json:"id"`
	UserID    *int64      `json:"user_id,omitempty"`
	Action    AuditAction `json:"action"`
	OrderID   string      `json:"order_id,omitempty"`
	Details   string      `json:"details,omitempty"` // JSON string
	IPAddress string      `json:"ip_address,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
