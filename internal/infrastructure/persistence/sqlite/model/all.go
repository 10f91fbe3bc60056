package model

// All lists every table owned by the application, in migration order.
func All() []any {
	return []any{
		&Tenant{},
		&Asset{},
		&ServiceRecord{},
		&AuditLog{},
		&CacheEntry{},
	}
}
