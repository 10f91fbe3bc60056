package inspection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/domain/actionplan"
	"firewatch/internal/domain/maintenance"
	"firewatch/internal/ports"
)

type RecordServiceInput struct {
	TenantID    string
	AssetID     string
	ServiceDate string
	Level       string
	Approved    string
	Observation string
	// ReplacementAssetID is required for a Substitution. Unknown replacements are registered with the
	// family and location of the asset they replace.
	ReplacementAssetID string
	// HydrostaticDue overrides next_hydrostatic, typically from a test certificate.
	HydrostaticDue string
	Actor          string
}

type RecordServiceResult struct {
	Record maintenance.ServiceRecord
	// Retired is the closing record of the substituted asset, nil unless Level is Substitution.
	Retired *maintenance.ServiceRecord
}

// RecordService appends one service event. Due dates are derived from the consolidated history of the asset
// and the action plan from the asset family's keyword table.
func (s *Service) RecordService(ctx context.Context, input RecordServiceInput) (RecordServiceResult, error) {
	if err := s.ready(ctx); err != nil {
		return RecordServiceResult{}, err
	}
	tenantID, err := s.requireTenant(ctx, input.TenantID)
	if err != nil {
		return RecordServiceResult{}, err
	}

	assetID := strings.TrimSpace(input.AssetID)
	if assetID == "" {
		return RecordServiceResult{}, maintenance.ErrAssetIDRequired
	}
	serviceDate, ok := maintenance.ParseDate(input.ServiceDate)
	if !ok {
		return RecordServiceResult{}, fmt.Errorf("%w: %q", maintenance.ErrInvalidServiceDate, input.ServiceDate)
	}
	level, err := maintenance.ParseServiceLevel(input.Level)
	if err != nil {
		return RecordServiceResult{}, err
	}
	approved := maintenance.ParseApproval(input.Approved)
	observation := strings.TrimSpace(input.Observation)

	var hydrostatic string
	if raw := strings.TrimSpace(input.HydrostaticDue); raw != "" {
		normalized, ok := maintenance.NormalizeDate(raw)
		if !ok {
			return RecordServiceResult{}, invalid("hydrostatic due date %q is not a date", raw)
		}
		hydrostatic = normalized
	}

	replacementID := strings.TrimSpace(input.ReplacementAssetID)
	if level == maintenance.LevelSubstitution {
		if replacementID == "" {
			return RecordServiceResult{}, invalid("substitution requires a replacement asset id")
		}
		if replacementID == assetID {
			return RecordServiceResult{}, invalid("replacement asset must differ from %s", assetID)
		}
	} else if replacementID != "" {
		return RecordServiceResult{}, invalid("replacement asset id is only valid for %s", maintenance.LevelSubstitution)
	}

	actor := normalizeActor(input.Actor)
	var result RecordServiceResult
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		asset, err := s.getAssetTx(txCtx, tenantID, assetID)
		if err != nil {
			return err
		}
		if asset.Status == ports.AssetStatusRetired {
			return fmt.Errorf("asset %s: %w", assetID, ErrAssetRetired)
		}
		family, err := actionplan.ParseFamily(asset.Family)
		if err != nil {
			return err
		}
		plan, err := s.catalog.Resolve(family, approved, observation)
		if err != nil {
			return err
		}

		event := serviceEvent{
			date:        serviceDate,
			level:       level,
			approved:    approved,
			observation: observation,
			actionPlan:  plan,
			hydrostatic: hydrostatic,
			actor:       actor,
		}

		if level != maintenance.LevelSubstitution {
			record, err := s.appendEventTx(txCtx, tenantID, assetID, event)
			if err != nil {
				return err
			}
			result.Record = record
			return s.appendAuditTx(txCtx, tenantID, actor, "service.record", assetID, auditDetail(record))
		}

		replacement, err := s.assets.GetAsset(txCtx, tenantID, replacementID)
		switch {
		case errors.Is(err, ports.ErrAssetNotFound):
			if _, err := s.upsertAssetTx(txCtx, tenantID, replacementID, family, asset.Location); err != nil {
				return err
			}
		case err != nil:
			return err
		case replacement.Status == ports.AssetStatusRetired:
			return fmt.Errorf("replacement asset %s: %w", replacementID, ErrAssetRetired)
		}

		retired, err := s.retireAssetTx(txCtx, tenantID, assetID, replacementID, event)
		if err != nil {
			return err
		}
		record, err := s.appendEventTx(txCtx, tenantID, replacementID, event)
		if err != nil {
			return err
		}
		result.Record = record
		result.Retired = &retired
		return s.appendAuditTx(txCtx, tenantID, actor, "service.substitute", assetID,
			fmt.Sprintf("replaced by %s on %s", replacementID, record.ServiceDate))
	}); err != nil {
		return RecordServiceResult{}, err
	}

	s.invalidateState(ctx, tenantID, assetID, replacementID)
	logging.Info(ctx, "service recorded",
		slog.String("asset_id", result.Record.AssetID),
		slog.String("level", string(level)),
		slog.String("approved", string(approved)),
	)
	return result, nil
}

type serviceEvent struct {
	date        time.Time
	level       maintenance.ServiceLevel
	approved    maintenance.Approval
	observation string
	actionPlan  string
	hydrostatic string
	actor       string
}

// appendEventTx consolidates the asset's history, schedules the next due dates and appends the record.
func (s *Service) appendEventTx(ctx context.Context, tenantID string, assetID string, event serviceEvent) (maintenance.ServiceRecord, error) {
	prior, err := s.priorDueTx(ctx, tenantID, assetID)
	if err != nil {
		return maintenance.ServiceRecord{}, err
	}

	due := maintenance.ComputeNextDates(event.date, event.level, prior)
	if event.hydrostatic != "" {
		due[maintenance.CategoryHydrostatic] = event.hydrostatic
	}

	return s.records.AppendRecord(ctx, maintenance.ServiceRecord{
		ID:          s.newID(),
		TenantID:    tenantID,
		AssetID:     assetID,
		ServiceDate: maintenance.FormatDate(event.date),
		Level:       event.level,
		Approved:    event.approved,
		Observation: event.observation,
		ActionPlan:  event.actionPlan,
		Due:         due,
		RecordedBy:  event.actor,
		RecordedAt:  s.nowString(),
	})
}

// retireAssetTx closes the lineage of a substituted asset: a record with every due date null, then status retired.
func (s *Service) retireAssetTx(ctx context.Context, tenantID string, assetID string, replacementID string, event serviceEvent) (maintenance.ServiceRecord, error) {
	record, err := s.records.AppendRecord(ctx, maintenance.ServiceRecord{
		ID:          s.newID(),
		TenantID:    tenantID,
		AssetID:     assetID,
		ServiceDate: maintenance.FormatDate(event.date),
		Level:       maintenance.LevelSubstitution,
		Approved:    event.approved,
		Observation: event.observation,
		ActionPlan:  fmt.Sprintf("Retired from service, replaced by %s.", replacementID),
		Due:         maintenance.RetiredDueDates(),
		RecordedBy:  event.actor,
		RecordedAt:  s.nowString(),
	})
	if err != nil {
		return maintenance.ServiceRecord{}, err
	}

	replacedBy := replacementID
	if err := s.assets.SetAssetStatus(ctx, tenantID, assetID, ports.AssetStatusRetired, &replacedBy, s.nowString()); err != nil {
		return maintenance.ServiceRecord{}, err
	}
	return record, nil
}

func (s *Service) priorDueTx(ctx context.Context, tenantID string, assetID string) (maintenance.DueDates, error) {
	history, err := s.records.ListRecords(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	state, err := maintenance.Consolidate(history, assetID)
	if errors.Is(err, maintenance.ErrNotFound) {
		return maintenance.DueDates{}, nil
	}
	if err != nil {
		return nil, err
	}
	return state.Due, nil
}

func auditDetail(record maintenance.ServiceRecord) string {
	parts := []string{record.ServiceDate, string(record.Level), string(record.Approved)}
	for _, category := range maintenance.Categories {
		if value, ok := record.Due.Get(category); ok {
			parts = append(parts, fmt.Sprintf("%s=%s", category, value))
		}
	}
	return strings.Join(parts, " ")
}
