package maintenance

// ServiceRecord is one inspection or maintenance event for one asset. Dates are kept as entered so that
// dirty historical rows can be tolerated; use ParseDate before doing arithmetic.
type ServiceRecord struct {
	ID          string
	TenantID    string
	AssetID     string
	ServiceDate string
	Level       ServiceLevel
	Approved    Approval
	Observation string
	ActionPlan  string
	Due         DueDates
	RecordedBy  string
	RecordedAt  string
	Seq         uint64
}

// ConsolidatedState is the current view of an asset: the latest record with due dates replaced by the
// furthest date ever recorded for each category.
type ConsolidatedState struct {
	ServiceRecord
	RecordCount int
}
