package repository

import (
	"context"

	"gorm.io/gorm"

	"firewatch/internal/errs"
	"firewatch/internal/infrastructure/persistence/sqlite/model"
	"firewatch/internal/ports"
)

const defaultAuditLimit = 100

type AuditRepository struct {
	db *gorm.DB
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) AppendAudit(ctx context.Context, entry ports.AuditEntry) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.AuditLog{
		TenantID:  entry.TenantID,
		Actor:     entry.Actor,
		Action:    entry.Action,
		Target:    entry.Target,
		Detail:    entry.Detail,
		CreatedAt: entry.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrapf(err, "insert audit %s", entry.Action)
	}
	return nil
}

// ListAudit returns the newest entries first.
func (r *AuditRepository) ListAudit(ctx context.Context, tenantID string, limit int) ([]ports.AuditEntry, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	var rows []model.AuditLog
	if err := db.Where("tenant_id = ?", tenantID).
		Order("audit_id desc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query audit log")
	}

	items := make([]ports.AuditEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.AuditEntry{
			AuditID:   row.AuditID,
			TenantID:  row.TenantID,
			Actor:     row.Actor,
			Action:    row.Action,
			Target:    row.Target,
			Detail:    row.Detail,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}
