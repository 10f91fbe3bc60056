package model

type AuditLog struct {
	AuditID   uint64 `gorm:"column:audit_id;primaryKey;autoIncrement"`
	TenantID  string `gorm:"column:tenant_id;type:text;not null;index"`
	Actor     string `gorm:"column:actor;type:text;not null"`
	Action    string `gorm:"column:action;type:text;not null"`
	Target    string `gorm:"column:target;type:text;not null;default:''"`
	Detail    string `gorm:"column:detail;type:text;not null;default:''"`
	CreatedAt string `gorm:"column:created_at;type:text;not null;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
