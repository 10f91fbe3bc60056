package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"firewatch/internal/errs"
	"firewatch/internal/infrastructure/persistence/sqlite/model"
	"firewatch/internal/ports"
)

type TenantRepository struct {
	db *gorm.DB
}

var _ ports.TenantRepository = (*TenantRepository)(nil)

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) CreateTenant(ctx context.Context, tenant ports.Tenant) (ports.Tenant, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Tenant{}, err
	}

	row := model.Tenant{
		TenantID:  tenant.TenantID,
		Name:      tenant.Name,
		Plan:      tenant.Plan,
		CreatedAt: tenant.CreatedAt,
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return ports.Tenant{}, errs.Wrap(result.Error, "insert tenant")
	}
	if result.RowsAffected == 0 {
		return ports.Tenant{}, ports.ErrTenantExists
	}
	return mapTenant(row), nil
}

func (r *TenantRepository) GetTenant(ctx context.Context, tenantID string) (ports.Tenant, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Tenant{}, err
	}

	var row model.Tenant
	if err := db.Where("tenant_id = ?", tenantID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Tenant{}, ports.ErrTenantNotFound
		}
		return ports.Tenant{}, errs.Wrap(err, "query tenant")
	}
	return mapTenant(row), nil
}

func (r *TenantRepository) ListTenants(ctx context.Context) ([]ports.Tenant, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Tenant
	if err := db.Order("tenant_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query tenants")
	}

	items := make([]ports.Tenant, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapTenant(row))
	}
	return items, nil
}

func mapTenant(row model.Tenant) ports.Tenant {
	return ports.Tenant{
		TenantID:  row.TenantID,
		Name:      row.Name,
		Plan:      row.Plan,
		CreatedAt: row.CreatedAt,
	}
}
