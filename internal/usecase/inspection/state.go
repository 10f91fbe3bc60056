package inspection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/domain/maintenance"
	"firewatch/internal/errs"
	"firewatch/internal/ports"
)

// CurrentState consolidates the asset's history. Results are cached until the next write touching the asset.
// An asset without any valid record yields maintenance.ErrNotFound.
func (s *Service) CurrentState(ctx context.Context, tenantID string, assetID string) (StateView, error) {
	if err := s.ready(ctx); err != nil {
		return StateView{}, err
	}
	tenantID, err := s.requireTenant(ctx, tenantID)
	if err != nil {
		return StateView{}, err
	}
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return StateView{}, maintenance.ErrAssetIDRequired
	}

	key := ports.AssetStateCacheKey(tenantID, assetID)
	if view, ok := s.cachedState(ctx, key); ok {
		return view, nil
	}

	asset, err := s.getAssetTx(ctx, tenantID, assetID)
	if err != nil {
		return StateView{}, err
	}
	history, err := s.records.ListRecords(ctx, tenantID, assetID)
	if err != nil {
		return StateView{}, err
	}
	state, err := maintenance.Consolidate(history, assetID)
	if err != nil {
		return StateView{}, fmt.Errorf("asset %s: %w", assetID, err)
	}

	view := newStateView(asset, state)
	s.storeState(ctx, key, view)
	s.dropIfChanged(ctx, key, tenantID, assetID, stateStamp(asset, history))
	return view, nil
}

// stateStamp identifies the inputs a state view was built from.
func stateStamp(asset ports.Asset, history []maintenance.ServiceRecord) string {
	var lastSeq uint64
	if len(history) > 0 {
		lastSeq = history[len(history)-1].Seq
	}
	return fmt.Sprintf("%s|%s|%d|%d", asset.Status, asset.UpdatedAt, len(history), lastSeq)
}

// dropIfChanged removes a just-stored view when a write landed after its inputs were read. Writers invalidate
// after commit, so a write committing later than this check deletes the entry itself.
func (s *Service) dropIfChanged(ctx context.Context, key string, tenantID string, assetID string, stamp string) {
	if s.cache == nil {
		return
	}
	asset, err := s.assets.GetAsset(ctx, tenantID, assetID)
	if err == nil {
		var history []maintenance.ServiceRecord
		history, err = s.records.ListRecords(ctx, tenantID, assetID)
		if err == nil && stateStamp(asset, history) == stamp {
			return
		}
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		logging.Warn(ctx, "asset state cache delete failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
	}
}

// History lists the asset's records in insertion order.
func (s *Service) History(ctx context.Context, tenantID string, assetID string) ([]maintenance.ServiceRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	tenantID, err := s.requireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return nil, maintenance.ErrAssetIDRequired
	}
	if _, err := s.getAssetTx(ctx, tenantID, assetID); err != nil {
		return nil, err
	}
	return s.records.ListRecords(ctx, tenantID, assetID)
}

func (s *Service) cachedState(ctx context.Context, key string) (StateView, bool) {
	if s.cache == nil {
		return StateView{}, false
	}
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		logging.Warn(ctx, "asset state cache read failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
		return StateView{}, false
	}
	if !found {
		return StateView{}, false
	}
	var view StateView
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		return StateView{}, false
	}
	return view, true
}

func (s *Service) storeState(ctx context.Context, key string, view StateView) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), 0); err != nil {
		logging.Warn(ctx, "asset state cache write failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
	}
}
