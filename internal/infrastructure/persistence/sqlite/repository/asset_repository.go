package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"firewatch/internal/errs"
	"firewatch/internal/infrastructure/persistence/sqlite/model"
	"firewatch/internal/ports"
)

type AssetRepository struct {
	db *gorm.DB
}

var _ ports.AssetRepository = (*AssetRepository)(nil)

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// UpsertAsset inserts the asset or refreshes its family and location. Status is left untouched on conflict.
func (r *AssetRepository) UpsertAsset(ctx context.Context, asset ports.Asset) (ports.Asset, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Asset{}, err
	}

	status := asset.Status
	if status == "" {
		status = ports.AssetStatusActive
	}
	row := model.Asset{
		TenantID:   asset.TenantID,
		AssetID:    asset.AssetID,
		Family:     asset.Family,
		Location:   asset.Location,
		Status:     status,
		ReplacedBy: asset.ReplacedBy,
		CreatedAt:  asset.CreatedAt,
		UpdatedAt:  asset.UpdatedAt,
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "asset_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"family":     row.Family,
			"location":   row.Location,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error; err != nil {
		return ports.Asset{}, errs.Wrap(err, "upsert asset")
	}

	return getAsset(db, asset.TenantID, asset.AssetID)
}

func (r *AssetRepository) GetAsset(ctx context.Context, tenantID string, assetID string) (ports.Asset, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Asset{}, err
	}
	return getAsset(db, tenantID, assetID)
}

func (r *AssetRepository) ListAssets(ctx context.Context, tenantID string, filter ports.AssetFilter) ([]ports.Asset, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Asset{}).Where("tenant_id = ?", tenantID)
	if family := strings.TrimSpace(filter.Family); family != "" {
		query = query.Where("family = ?", family)
	}
	if !filter.IncludeRetired {
		query = query.Where("status = ?", ports.AssetStatusActive)
	}

	var rows []model.Asset
	if err := query.Order("asset_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query assets")
	}

	items := make([]ports.Asset, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapAsset(row))
	}
	return items, nil
}

func (r *AssetRepository) SetAssetStatus(ctx context.Context, tenantID string, assetID string, status string, replacedBy *string, updatedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.Asset{}).
		Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).
		Updates(map[string]any{
			"status":      status,
			"replaced_by": replacedBy,
			"updated_at":  updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update asset status")
	}
	if result.RowsAffected == 0 {
		return ports.ErrAssetNotFound
	}
	return nil
}

func getAsset(db *gorm.DB, tenantID string, assetID string) (ports.Asset, error) {
	var row model.Asset
	if err := db.Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Asset{}, ports.ErrAssetNotFound
		}
		return ports.Asset{}, errs.Wrap(err, "query asset")
	}
	return mapAsset(row), nil
}

func mapAsset(row model.Asset) ports.Asset {
	return ports.Asset{
		TenantID:   row.TenantID,
		AssetID:    row.AssetID,
		Family:     row.Family,
		Location:   row.Location,
		Status:     row.Status,
		ReplacedBy: row.ReplacedBy,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
