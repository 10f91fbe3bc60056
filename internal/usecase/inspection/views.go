package inspection

import (
	"firewatch/internal/domain/maintenance"
	"firewatch/internal/ports"
)

// RecordView is the serialised form of a service record used by the HTTP API, the CLI and the state cache.
type RecordView struct {
	RecordID        string  `json:"record_id" yaml:"record_id"`
	AssetID         string  `json:"asset_id" yaml:"asset_id"`
	ServiceDate     string  `json:"service_date" yaml:"service_date"`
	ServiceLevel    string  `json:"service_level" yaml:"service_level"`
	Approved        string  `json:"approved" yaml:"approved"`
	Observation     string  `json:"observation" yaml:"observation"`
	ActionPlan      string  `json:"action_plan" yaml:"action_plan"`
	NextInspection  *string `json:"next_inspection" yaml:"next_inspection"`
	NextTier2       *string `json:"next_tier2" yaml:"next_tier2"`
	NextTier3       *string `json:"next_tier3" yaml:"next_tier3"`
	NextHydrostatic *string `json:"next_hydrostatic" yaml:"next_hydrostatic"`
	RecordedBy      string  `json:"recorded_by" yaml:"recorded_by"`
	RecordedAt      string  `json:"recorded_at" yaml:"recorded_at"`
}

// StateView is the consolidated current state of one asset.
type StateView struct {
	TenantID    string     `json:"tenant_id" yaml:"tenant_id"`
	Family      string     `json:"family" yaml:"family"`
	Location    string     `json:"location" yaml:"location"`
	Status      string     `json:"status" yaml:"status"`
	ReplacedBy  string     `json:"replaced_by,omitempty" yaml:"replaced_by,omitempty"`
	RecordCount int        `json:"record_count" yaml:"record_count"`
	Latest      RecordView `json:"latest" yaml:"latest"`
}

func NewRecordView(record maintenance.ServiceRecord) RecordView {
	return RecordView{
		RecordID:        record.ID,
		AssetID:         record.AssetID,
		ServiceDate:     record.ServiceDate,
		ServiceLevel:    record.Level.String(),
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
}

// newStateView reports no due dates for a retired asset; its earlier lineage stays in History.
func newStateView(asset ports.Asset, state maintenance.ConsolidatedState) StateView {
	if asset.Status == ports.AssetStatusRetired {
		state.Due = maintenance.RetiredDueDates()
	}
	view := StateView{
		TenantID:    asset.TenantID,
		Family:      asset.Family,
		Location:    asset.Location,
		Status:      asset.Status,
		RecordCount: state.RecordCount,
		Latest:      NewRecordView(state.ServiceRecord),
	}
	if asset.ReplacedBy != nil {
		view.ReplacedBy = *asset.ReplacedBy
	}
	return view
}

// Due returns the consolidated due dates of the state.
func (v StateView) Due() maintenance.DueDates {
	return maintenance.DueDatesFromPtrs(v.Latest.NextInspection, v.Latest.NextTier2, v.Latest.NextTier3, v.Latest.NextHydrostatic)
}
