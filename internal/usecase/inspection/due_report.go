package inspection

import (
	"context"
	"errors"
	"sort"
	"time"

	"firewatch/internal/domain/maintenance"
	"firewatch/internal/ports"
)

type Urgency string

const (
	UrgencyOverdue Urgency = "overdue"
	UrgencyDueSoon Urgency = "due_soon"
)

type DueItem struct {
	AssetID  string               `json:"asset_id" yaml:"asset_id"`
	Family   string               `json:"family" yaml:"family"`
	Location string               `json:"location" yaml:"location"`
	Category maintenance.Category `json:"category" yaml:"category"`
	DueDate  string               `json:"due_date" yaml:"due_date"`
	DaysLeft int                  `json:"days_left" yaml:"days_left"`
	Urgency  Urgency              `json:"urgency" yaml:"urgency"`
}

type DueReport struct {
	TenantID    string    `json:"tenant_id" yaml:"tenant_id"`
	Today       string    `json:"today" yaml:"today"`
	HorizonDays int       `json:"horizon_days" yaml:"horizon_days"`
	Items       []DueItem `json:"items" yaml:"items"`
}

// Overdue counts the items already past their due date.
func (r DueReport) Overdue() int {
	n := 0
	for _, item := range r.Items {
		if item.Urgency == UrgencyOverdue {
			n++
		}
	}
	return n
}

// DueReport lists, for every active asset, each consolidated due date that falls on or before today plus
// horizonDays. Items are ordered by due date, then asset, then category.
func (s *Service) DueReport(ctx context.Context, tenantID string, horizonDays int) (DueReport, error) {
	if err := s.ready(ctx); err != nil {
		return DueReport{}, err
	}
	tenantID, err := s.requireTenant(ctx, tenantID)
	if err != nil {
		return DueReport{}, err
	}
	if horizonDays < 0 {
		return DueReport{}, invalid("horizon days must not be negative, got %d", horizonDays)
	}

	assets, err := s.assets.ListAssets(ctx, tenantID, ports.AssetFilter{})
	if err != nil {
		return DueReport{}, err
	}
	history, err := s.records.ListRecords(ctx, tenantID, "")
	if err != nil {
		return DueReport{}, err
	}

	byAsset := make(map[string][]maintenance.ServiceRecord, len(assets))
	for _, record := range history {
		byAsset[record.AssetID] = append(byAsset[record.AssetID], record)
	}

	today := s.today()
	limit := today.AddDate(0, 0, horizonDays)
	report := DueReport{
		TenantID:    tenantID,
		Today:       maintenance.FormatDate(today),
		HorizonDays: horizonDays,
		Items:       []DueItem{},
	}

	for _, asset := range assets {
		state, err := maintenance.Consolidate(byAsset[asset.AssetID], asset.AssetID)
		if errors.Is(err, maintenance.ErrNotFound) {
			continue
		}
		if err != nil {
			return DueReport{}, err
		}

		for _, category := range maintenance.Categories {
			raw, ok := state.Due.Get(category)
			if !ok {
				continue
			}
			due, ok := maintenance.ParseDate(raw)
			if !ok || due.After(limit) {
				continue
			}
			report.Items = append(report.Items, DueItem{
				AssetID:  asset.AssetID,
				Family:   asset.Family,
				Location: asset.Location,
				Category: category,
				DueDate:  raw,
				DaysLeft: daysBetween(today, due),
				Urgency:  classify(today, due),
			})
		}
	}

	sortDueItems(report.Items)
	return report, nil
}

func classify(today time.Time, due time.Time) Urgency {
	if due.Before(today) {
		return UrgencyOverdue
	}
	return UrgencyDueSoon
}

func daysBetween(from time.Time, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func sortDueItems(items []DueItem) {
	rank := make(map[maintenance.Category]int, len(maintenance.Categories))
	for i, category := range maintenance.Categories {
		rank[category] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DueDate != items[j].DueDate {
			return items[i].DueDate < items[j].DueDate
		}
		if items[i].AssetID != items[j].AssetID {
			return items[i].AssetID < items[j].AssetID
		}
		return rank[items[i].Category] < rank[items[j].Category]
	})
}
