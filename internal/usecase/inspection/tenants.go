package inspection

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/ports"
)

const defaultPlan = "basic"

type RegisterTenantInput struct {
	TenantID string
	Name     string
	Plan     string
	Actor    string
}

func (s *Service) RegisterTenant(ctx context.Context, input RegisterTenantInput) (ports.Tenant, error) {
	if err := s.ready(ctx); err != nil {
		return ports.Tenant{}, err
	}

	tenantID := strings.TrimSpace(input.TenantID)
	if tenantID == "" {
		return ports.Tenant{}, invalid("tenant id is required")
	}
	if strings.IndexFunc(tenantID, unicode.IsSpace) >= 0 || strings.Contains(tenantID, ":") {
		return ports.Tenant{}, invalid("tenant id %q must not contain spaces or colons", tenantID)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = tenantID
	}
	plan := strings.TrimSpace(input.Plan)
	if plan == "" {
		plan = defaultPlan
	}

	var created ports.Tenant
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.tenants.CreateTenant(txCtx, ports.Tenant{
			TenantID:  tenantID,
			Name:      name,
			Plan:      plan,
			CreatedAt: s.nowString(),
		})
		if err != nil {
			return err
		}
		return s.appendAuditTx(txCtx, tenantID, input.Actor, "tenant.create", tenantID, name)
	}); err != nil {
		return ports.Tenant{}, err
	}

	logging.Info(ctx, "tenant registered", slog.String("tenant", tenantID), slog.String("plan", plan))
	return created, nil
}

func (s *Service) ListTenants(ctx context.Context) ([]ports.Tenant, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return s.tenants.ListTenants(ctx)
}
