package inspection

import (
	"context"

	"firewatch/internal/ports"
)

func (s *Service) AuditLog(ctx context.Context, tenantID string, limit int) ([]ports.AuditEntry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	tenantID, err := s.requireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.audit.ListAudit(ctx, tenantID, limit)
}
