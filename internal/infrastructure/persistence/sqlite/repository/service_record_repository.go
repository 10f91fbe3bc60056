package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"firewatch/internal/domain/maintenance"
	"firewatch/internal/errs"
	"firewatch/internal/infrastructure/persistence/sqlite/model"
	"firewatch/internal/ports"
)

type ServiceRecordRepository struct {
	db *gorm.DB
}

var _ ports.ServiceRecordRepository = (*ServiceRecordRepository)(nil)

func NewServiceRecordRepository(db *gorm.DB) *ServiceRecordRepository {
	return &ServiceRecordRepository{db: db}
}

func (r *ServiceRecordRepository) AppendRecord(ctx context.Context, record maintenance.ServiceRecord) (maintenance.ServiceRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return maintenance.ServiceRecord{}, err
	}

	row := model.ServiceRecord{
		RecordID:        record.ID,
		TenantID:        record.TenantID,
		AssetID:         record.AssetID,
		ServiceDate:     record.ServiceDate,
		ServiceLevel:    string(record.Level),
		Approved:        string(record.Approved),
		Observation:     record.Observation,
		ActionPlan:      record.ActionPlan,
		NextInspection:  record.Due.Ptr(maintenance.CategoryInspection),
		NextTier2:       record.Due.Ptr(maintenance.CategoryTier2),
		NextTier3:       record.Due.Ptr(maintenance.CategoryTier3),
		NextHydrostatic: record.Due.Ptr(maintenance.CategoryHydrostatic),
		RecordedBy:      record.RecordedBy,
		RecordedAt:      record.RecordedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return maintenance.ServiceRecord{}, errs.Wrapf(err, "insert service record %s", record.ID)
	}
	return mapServiceRecord(row), nil
}

func (r *ServiceRecordRepository) ListRecords(ctx context.Context, tenantID string, assetID string) ([]maintenance.ServiceRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.ServiceRecord{}).Where("tenant_id = ?", tenantID)
	if assetID = strings.TrimSpace(assetID); assetID != "" {
		query = query.Where("asset_id = ?", assetID)
	}

	var rows []model.ServiceRecord
	if err := query.Order("seq asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query service records")
	}

	items := make([]maintenance.ServiceRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapServiceRecord(row))
	}
	return items, nil
}

func mapServiceRecord(row model.ServiceRecord) maintenance.ServiceRecord {
	return maintenance.ServiceRecord{
		ID:          row.RecordID,
		TenantID:    row.TenantID,
		AssetID:     row.AssetID,
		ServiceDate: row.ServiceDate,
		Level:       maintenance.ServiceLevel(row.ServiceLevel),
		Approved:    maintenance.Approval(row.Approved),
		Observation: row.Observation,
		ActionPlan:  row.ActionPlan,
		Due:         maintenance.DueDatesFromPtrs(row.NextInspection, row.NextTier2, row.NextTier3, row.NextHydrostatic),
		RecordedBy:  row.RecordedBy,
		RecordedAt:  row.RecordedAt,
		Seq:         row.Seq,
	}
}
