package model

type Tenant struct {
	TenantID  string `gorm:"column:tenant_id;type:text;primaryKey"`
	Name      string `gorm:"column:name;type:text;not null"`
	Plan      string `gorm:"column:plan;type:text;not null;default:'basic'"`
	CreatedAt string `gorm:"column:created_at;type:text;not null"`
}

func (Tenant) TableName() string {
	return "tenants"
}
