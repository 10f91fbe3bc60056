package inspection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/domain/actionplan"
	"firewatch/internal/domain/maintenance"
	"firewatch/internal/errs"
	"firewatch/internal/infrastructure/spreadsheet"
	"firewatch/internal/ports"
)

type ImportSheetInput struct {
	TenantID string
	Reader   io.Reader
	Actor    string
}

type ImportSheetResult struct {
	Sheet         string                   `json:"sheet"`
	Imported      int                      `json:"imported"`
	AssetsCreated int                      `json:"assets_created"`
	Skipped       []spreadsheet.SkippedRow `json:"skipped"`
}

// ImportSheet appends every valid row of a workbook as a historical record in one transaction. Due dates present
// in the sheet are kept; missing categories are scheduled from the asset's history as it stands at that row.
// Unknown assets are registered when the row names a family.
func (s *Service) ImportSheet(ctx context.Context, input ImportSheetInput) (ImportSheetResult, error) {
	if err := s.ready(ctx); err != nil {
		return ImportSheetResult{}, err
	}
	tenantID, err := s.requireTenant(ctx, input.TenantID)
	if err != nil {
		return ImportSheetResult{}, err
	}
	if input.Reader == nil {
		return ImportSheetResult{}, invalid("workbook is required")
	}

	parsed, err := spreadsheet.Read(input.Reader)
	if err != nil {
		if errs.IsAny(err, spreadsheet.ErrInvalidWorkbook, spreadsheet.ErrMissingHeaders, spreadsheet.ErrEmptyWorkbook) {
			return ImportSheetResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return ImportSheetResult{}, err
	}

	actor := normalizeActor(input.Actor)
	result := ImportSheetResult{
		Sheet:   parsed.Sheet,
		Skipped: append([]spreadsheet.SkippedRow{}, parsed.Skipped...),
	}
	touched := map[string]struct{}{}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		for _, row := range parsed.Rows {
			created, reason, err := s.importRowTx(txCtx, tenantID, actor, row)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.Number, err)
			}
			if reason != "" {
				result.Skipped = append(result.Skipped, spreadsheet.SkippedRow{Number: row.Number, Reason: reason})
				continue
			}
			if created {
				result.AssetsCreated++
			}
			result.Imported++
			touched[row.AssetID] = struct{}{}
		}
		return s.appendAuditTx(txCtx, tenantID, actor, "sheet.import", parsed.Sheet,
			fmt.Sprintf("imported=%d assets_created=%d skipped=%d", result.Imported, result.AssetsCreated, len(result.Skipped)))
	}); err != nil {
		return ImportSheetResult{}, err
	}

	for assetID := range touched {
		s.invalidateState(ctx, tenantID, assetID)
	}
	logging.Info(ctx, "sheet imported",
		slog.String("sheet", parsed.Sheet),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// importRowTx returns a non-empty reason when the row is skipped for a data problem.
func (s *Service) importRowTx(ctx context.Context, tenantID string, actor string, row spreadsheet.Row) (bool, string, error) {
	created := false
	asset, err := s.assets.GetAsset(ctx, tenantID, row.AssetID)
	switch {
	case errors.Is(err, ports.ErrAssetNotFound):
		if strings.TrimSpace(row.Family) == "" {
			return false, fmt.Sprintf("unknown asset %s and no family given", row.AssetID), nil
		}
		family, err := actionplan.ParseFamily(row.Family)
		if err != nil {
			return false, fmt.Sprintf("unknown family %q", row.Family), nil
		}
		asset, err = s.upsertAssetTx(ctx, tenantID, row.AssetID, family, row.Location)
		if err != nil {
			return false, "", err
		}
		created = true
	case err != nil:
		return false, "", err
	}

	family, err := actionplan.ParseFamily(asset.Family)
	if err != nil {
		return false, "", err
	}
	plan := row.ActionPlan
	if plan == "" {
		plan, err = s.catalog.Resolve(family, row.Approved, row.Observation)
		if err != nil {
			return false, "", err
		}
	}

	prior, err := s.priorDueTx(ctx, tenantID, row.AssetID)
	if err != nil {
		return false, "", err
	}
	due := maintenance.ComputeNextDates(row.ServiceDate, row.Level, prior)
	for category, value := range row.Due {
		due[category] = value
	}

	recordedBy := row.RecordedBy
	if recordedBy == "" {
		recordedBy = actor
	}
	if _, err := s.records.AppendRecord(ctx, maintenance.ServiceRecord{
		ID:          s.newID(),
		TenantID:    tenantID,
		AssetID:     row.AssetID,
		ServiceDate: maintenance.FormatDate(row.ServiceDate),
		Level:       row.Level,
		Approved:    row.Approved,
		Observation: row.Observation,
		ActionPlan:  plan,
		Due:         due,
		RecordedBy:  recordedBy,
		RecordedAt:  s.nowString(),
	}); err != nil {
		return false, "", err
	}
	return created, "", nil
}

// ExportSheet writes every record of the tenant, retired assets included, in insertion order.
func (s *Service) ExportSheet(ctx context.Context, tenantID string, w io.Writer) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	tenantID, err := s.requireTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	if w == nil {
		return 0, invalid("writer is required")
	}

	assets, err := s.assets.ListAssets(ctx, tenantID, ports.AssetFilter{IncludeRetired: true})
	if err != nil {
		return 0, err
	}
	byID := make(map[string]ports.Asset, len(assets))
	for _, asset := range assets {
		byID[asset.AssetID] = asset
	}

	records, err := s.records.ListRecords(ctx, tenantID, "")
	if err != nil {
		return 0, err
	}
	rows := make([]spreadsheet.ExportRow, 0, len(records))
	for _, record := range records {
		asset := byID[record.AssetID]
		rows = append(rows, spreadsheet.ExportRow{
			Family:   asset.Family,
			Location: asset.Location,
			Record:   record,
		})
	}

	if err := spreadsheet.Write(w, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
