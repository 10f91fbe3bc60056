package maintenance

import (
	"strings"
	"time"
)

// Consolidate derives the current state of assetID from a tenant's full, possibly out-of-order history.
//
// Records with a missing or unparseable service date are ignored. The latest record is the one with the
// greatest service date; on equal dates the one appearing later in history wins. For every category the
// furthest due date found in any valid record of the asset replaces the latest record's value, so appending
// records out of order never moves a due date backwards.
func Consolidate(history []ServiceRecord, assetID string) (ConsolidatedState, error) {
	target := strings.TrimSpace(assetID)
	if target == "" {
		return ConsolidatedState{}, ErrAssetIDRequired
	}

	var (
		latest     ServiceRecord
		latestDate time.Time
		found      int
		maxima     = make(map[Category]time.Time, len(Categories))
	)

	for _, record := range history {
		if strings.TrimSpace(record.AssetID) != target {
			continue
		}
		serviceDate, ok := ParseDate(record.ServiceDate)
		if !ok {
			continue
		}

		if found == 0 || !serviceDate.Before(latestDate) {
			latest = record
			latestDate = serviceDate
		}
		found++

		for _, category := range Categories {
			raw, ok := record.Due.Get(category)
			if !ok {
				continue
			}
			due, ok := ParseDate(raw)
			if !ok {
				continue
			}
			if current, seen := maxima[category]; !seen || due.After(current) {
				maxima[category] = due
			}
		}
	}

	if found == 0 {
		return ConsolidatedState{}, ErrNotFound
	}

	due := make(DueDates, len(maxima))
	for category, value := range maxima {
		due[category] = FormatDate(value)
	}

	latest.ServiceDate = FormatDate(latestDate)
	latest.Due = due
	return ConsolidatedState{
		ServiceRecord: latest,
		RecordCount:   found,
	}, nil
}
