package model

// ServiceRecord rows are only ever inserted. Seq preserves insertion order for tie-breaking.
type ServiceRecord struct {
	Seq             uint64  `gorm:"column:seq;primaryKey;autoIncrement"`
	RecordID        string  `gorm:"column:record_id;type:text;not null;uniqueIndex"`
	TenantID        string  `gorm:"column:tenant_id;type:text;not null;index:idx_service_records_asset,priority:1"`
	AssetID         string  `gorm:"column:asset_id;type:text;not null;index:idx_service_records_asset,priority:2"`
	ServiceDate     string  `gorm:"column:service_date;type:text;not null"`
	ServiceLevel    string  `gorm:"column:service_level;type:text;not null"`
	Approved        string  `gorm:"column:approved;type:text;not null"`
	Observation     string  `gorm:"column:observation;type:text;not null;default:''"`
	ActionPlan      string  `gorm:"column:action_plan;type:text;not null;default:''"`
	NextInspection  *string `gorm:"column:next_inspection;type:text"`
	NextTier2       *string `gorm:"column:next_tier2;type:text"`
	NextTier3       *string `gorm:"column:next_tier3;type:text"`
	NextHydrostatic *string `gorm:"column:next_hydrostatic;type:text"`
	RecordedBy      string  `gorm:"column:recorded_by;type:text;not null"`
	RecordedAt      string  `gorm:"column:recorded_at;type:text;not null"`
}

func (ServiceRecord) TableName() string {
	return "service_records"
}
