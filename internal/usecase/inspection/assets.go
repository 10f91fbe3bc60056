package inspection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/domain/actionplan"
	"firewatch/internal/ports"
)

type RegisterAssetInput struct {
	TenantID string
	AssetID  string
	Family   string
	Location string
	Actor    string
}

type DisposeAssetInput struct {
	TenantID string
	AssetID  string
	Reason   string
	Actor    string
}

// RegisterAsset creates an asset or updates its family and location. A retired asset stays retired.
func (s *Service) RegisterAsset(ctx context.Context, input RegisterAssetInput) (ports.Asset, error) {
	if err := s.ready(ctx); err != nil {
		return ports.Asset{}, err
	}
	tenantID, err := s.requireTenant(ctx, input.TenantID)
	if err != nil {
		return ports.Asset{}, err
	}
	assetID := strings.TrimSpace(input.AssetID)
	if assetID == "" {
		return ports.Asset{}, invalid("asset id is required")
	}
	family, err := actionplan.ParseFamily(input.Family)
	if err != nil {
		return ports.Asset{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var saved ports.Asset
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.upsertAssetTx(txCtx, tenantID, assetID, family, strings.TrimSpace(input.Location))
		if err != nil {
			return err
		}
		return s.appendAuditTx(txCtx, tenantID, input.Actor, "asset.register", assetID, string(family))
	}); err != nil {
		return ports.Asset{}, err
	}

	s.invalidateState(ctx, tenantID, assetID)
	logging.Info(ctx, "asset registered", slog.String("asset_id", assetID), slog.String("family", string(family)))
	return saved, nil
}

func (s *Service) ListAssets(ctx context.Context, tenantID string, filter ports.AssetFilter) ([]ports.Asset, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	tenantID, err := s.requireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if filter.Family != "" {
		family, err := actionplan.ParseFamily(filter.Family)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Family = string(family)
	}
	return s.assets.ListAssets(ctx, tenantID, filter)
}

// DisposeAsset retires an asset without a replacement. Its history is kept.
func (s *Service) DisposeAsset(ctx context.Context, input DisposeAssetInput) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tenantID, err := s.requireTenant(ctx, input.TenantID)
	if err != nil {
		return err
	}
	assetID := strings.TrimSpace(input.AssetID)
	if assetID == "" {
		return invalid("asset id is required")
	}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		asset, err := s.getAssetTx(txCtx, tenantID, assetID)
		if err != nil {
			return err
		}
		if asset.Status == ports.AssetStatusRetired {
			return fmt.Errorf("asset %s: %w", assetID, ErrAssetRetired)
		}
		if err := s.assets.SetAssetStatus(txCtx, tenantID, assetID, ports.AssetStatusRetired, nil, s.nowString()); err != nil {
			return err
		}
		return s.appendAuditTx(txCtx, tenantID, input.Actor, "asset.dispose", assetID, strings.TrimSpace(input.Reason))
	}); err != nil {
		return err
	}

	s.invalidateState(ctx, tenantID, assetID)
	logging.Info(ctx, "asset disposed", slog.String("asset_id", assetID))
	return nil
}

func (s *Service) upsertAssetTx(ctx context.Context, tenantID string, assetID string, family actionplan.Family, location string) (ports.Asset, error) {
	now := s.nowString()
	return s.assets.UpsertAsset(ctx, ports.Asset{
		TenantID:  tenantID,
		AssetID:   assetID,
		Family:    string(family),
		Location:  location,
		Status:    ports.AssetStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *Service) getAssetTx(ctx context.Context, tenantID string, assetID string) (ports.Asset, error) {
	asset, err := s.assets.GetAsset(ctx, tenantID, assetID)
	if err != nil {
		if errors.Is(err, ports.ErrAssetNotFound) {
			return ports.Asset{}, fmt.Errorf("asset %s: %w", assetID, ports.ErrAssetNotFound)
		}
		return ports.Asset{}, err
	}
	return asset, nil
}
