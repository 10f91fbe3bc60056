package model

type Asset struct {
	TenantID   string  `gorm:"column:tenant_id;type:text;primaryKey"`
	AssetID    string  `gorm:"column:asset_id;type:text;primaryKey"`
	Family     string  `gorm:"column:family;type:text;not null;index"`
	Location   string  `gorm:"column:location;type:text;not null;default:''"`
	Status     string  `gorm:"column:status;type:text;not null;default:'active';index"`
	ReplacedBy *string `gorm:"column:replaced_by;type:text"`
	CreatedAt  string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt  string  `gorm:"column:updated_at;type:text;not null"`
}

func (Asset) TableName() string {
	return "assets"
}
