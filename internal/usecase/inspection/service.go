package inspection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"

	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/domain/actionplan"
	"firewatch/internal/errs"
	"firewatch/internal/ports"
)

var (
	// ErrInvalidInput marks caller mistakes. Wrapped errors carry the detail.
	ErrInvalidInput = errors.New("invalid input")
	ErrAssetRetired = errors.New("asset is retired")
)

const defaultActor = "system"

// Deps lists the collaborators of Service. Cache and Clock are optional.
type Deps struct {
	Tenants ports.TenantRepository
	Assets  ports.AssetRepository
	Records ports.ServiceRecordRepository
	Audit   ports.AuditRepository
	UoW     ports.UnitOfWork
	Cache   ports.Cache
	Catalog *actionplan.Catalog
	Clock   clockz.Clock
}

type Service struct {
	tenants ports.TenantRepository
	assets  ports.AssetRepository
	records ports.ServiceRecordRepository
	audit   ports.AuditRepository
	uow     ports.UnitOfWork
	cache   ports.Cache
	catalog *actionplan.Catalog
	clock   clockz.Clock
	newID   func() string
}

func NewService(deps Deps) *Service {
	clock := deps.Clock
	if clock == nil {
		clock = clockz.RealClock
	}
	return &Service{
		tenants: deps.Tenants,
		assets:  deps.Assets,
		records: deps.Records,
		audit:   deps.Audit,
		uow:     deps.UoW,
		cache:   deps.Cache,
		catalog: deps.Catalog,
		clock:   clock,
		newID:   uuid.NewString,
	}
}

func (s *Service) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.tenants == nil || s.assets == nil || s.records == nil || s.audit == nil {
		return errors.New("inspection repositories are required")
	}
	if s.uow == nil {
		return errors.New("inspection unit of work is required")
	}
	if s.catalog == nil {
		return errors.New("action plan catalog is required")
	}
	return nil
}

func (s *Service) nowString() string {
	return s.clock.Now().UTC().Format(time.RFC3339Nano)
}

// today is the current calendar date in UTC with the time stripped.
func (s *Service) today() time.Time {
	y, m, d := s.clock.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) requireTenant(ctx context.Context, tenantID string) (string, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return "", invalid("tenant id is required")
	}
	if _, err := s.tenants.GetTenant(ctx, tenantID); err != nil {
		if errors.Is(err, ports.ErrTenantNotFound) {
			return "", fmt.Errorf("tenant %s: %w", tenantID, ports.ErrTenantNotFound)
		}
		return "", err
	}
	return tenantID, nil
}

func (s *Service) appendAuditTx(ctx context.Context, tenantID string, actor string, action string, target string, detail string) error {
	return s.audit.AppendAudit(ctx, ports.AuditEntry{
		TenantID:  tenantID,
		Actor:     normalizeActor(actor),
		Action:    action,
		Target:    target,
		Detail:    detail,
		CreatedAt: s.nowString(),
	})
}

func (s *Service) invalidateState(ctx context.Context, tenantID string, assetIDs ...string) {
	if s.cache == nil {
		return
	}
	for _, assetID := range assetIDs {
		if assetID == "" {
			continue
		}
		if err := s.cache.Delete(ctx, ports.AssetStateCacheKey(tenantID, assetID)); err != nil {
			logging.Warn(ctx, "asset state cache invalidation failed",
				slog.String("asset_id", assetID),
				slog.Any("err", errs.Loggable(err)),
			)
		}
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func normalizeActor(actor string) string {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return defaultActor
	}
	return actor
}
