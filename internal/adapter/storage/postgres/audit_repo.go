package postgres

import (
	"context"

	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/domain"
	"github.com/yoga-nditya/ALO-MONTIR-API/internal/core/ports"
)

type auditRepo struct {
	pool Pool
}

// NewAuditRepository creates a PostgreSQL-backed AuditRepository.
func NewAuditRepository(pool Pool) ports.AuditRepository {
	return &auditRepo{pool: pool}
}

func (r *auditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, user_id, action, order_id, details, ip_address, created_at)
	 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		log.ID, log.UserID, string(log.Action), log.OrderID,
		log.Details, log.IPAddress, log.CreatedAt,
	)
	return err
}
