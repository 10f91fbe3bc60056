package ports

import (
	"context"
	"errors"

	"firewatch/internal/domain/maintenance"
)

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrTenantExists   = errors.New("tenant already exists")
	ErrAssetNotFound  = errors.New("asset not found")
)

const (
	AssetStatusActive  = "active"
	AssetStatusRetired = "retired"
)

type Tenant struct {
	TenantID  string
	Name      string
	Plan      string
	CreatedAt string
}

type Asset struct {
	TenantID   string
	AssetID    string
	Family     string
	Location   string
	Status     string
	ReplacedBy *string
	CreatedAt  string
	UpdatedAt  string
}

type AssetFilter struct {
	Family         string
	IncludeRetired bool
}

type AuditEntry struct {
	AuditID   uint64
	TenantID  string
	Actor     string
	Action    string
	Target    string
	Detail    string
	CreatedAt string
}

type TenantRepository interface {
	CreateTenant(ctx context.Context, tenant Tenant) (Tenant, error)
	GetTenant(ctx context.Context, tenantID string) (Tenant, error)
	ListTenants(ctx context.Context) ([]Tenant, error)
}

type AssetRepository interface {
	UpsertAsset(ctx context.Context, asset Asset) (Asset, error)
	GetAsset(ctx context.Context, tenantID string, assetID string) (Asset, error)
	ListAssets(ctx context.Context, tenantID string, filter AssetFilter) ([]Asset, error)
	SetAssetStatus(ctx context.Context, tenantID string, assetID string, status string, replacedBy *string, updatedAt string) error
}

// ServiceRecordRepository is append-only: corrections are new records.
type ServiceRecordRepository interface {
	AppendRecord(ctx context.Context, record maintenance.ServiceRecord) (maintenance.ServiceRecord, error)
	// ListRecords returns records in insertion order. An empty assetID lists the whole tenant.
	ListRecords(ctx context.Context, tenantID string, assetID string) ([]maintenance.ServiceRecord, error)
}

type AuditRepository interface {
	AppendAudit(ctx context.Context, entry AuditEntry) error
	ListAudit(ctx context.Context, tenantID string, limit int) ([]AuditEntry, error)
}
