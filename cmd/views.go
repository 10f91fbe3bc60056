package cmd

import (
	"firewatch/internal/ports"
)

type tenantView struct {
	TenantID  string `json:"tenant_id" yaml:"tenant_id"`
	Name      string `json:"name" yaml:"name"`
	Plan      string `json:"plan" yaml:"plan"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
}

type assetView struct {
	AssetID    string  `json:"asset_id" yaml:"asset_id"`
	Family     string  `json:"family" yaml:"family"`
	Location   string  `json:"location" yaml:"location"`
	Status     string  `json:"status" yaml:"status"`
	ReplacedBy *string `json:"replaced_by,omitempty" yaml:"replaced_by,omitempty"`
	UpdatedAt  string  `json:"updated_at" yaml:"updated_at"`
}

type auditView struct {
	AuditID   uint64 `json:"audit_id" yaml:"audit_id"`
	Actor     string `json:"actor" yaml:"actor"`
	Action    string `json:"action" yaml:"action"`
	Target    string `json:"target" yaml:"target"`
	Detail    string `json:"detail" yaml:"detail"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
}

func newTenantView(tenant ports.Tenant) tenantView {
	return tenantView{
		TenantID:  tenant.TenantID,
		Name:      tenant.Name,
		Plan:      tenant.Plan,
		CreatedAt: tenant.CreatedAt,
	}
}

func newTenantViews(tenants []ports.Tenant) []tenantView {
	out := make([]tenantView, 0, len(tenants))
	for _, tenant := range tenants {
		out = append(out, newTenantView(tenant))
	}
	return out
}

func newAssetView(asset ports.Asset) assetView {
	return assetView{
		AssetID:    asset.AssetID,
		Family:     asset.Family,
		Location:   asset.Location,
		Status:     asset.Status,
		ReplacedBy: asset.ReplacedBy,
		UpdatedAt:  asset.UpdatedAt,
	}
}

func newAssetViews(assets []ports.Asset) []assetView {
	out := make([]assetView, 0, len(assets))
	for _, asset := range assets {
		out = append(out, newAssetView(asset))
	}
	return out
}

func newAuditViews(entries []ports.AuditEntry) []auditView {
	out := make([]auditView, 0, len(entries))
	for _, entry := range entries {
		out = append(out, auditView{
			AuditID:   entry.AuditID,
			Actor:     entry.Actor,
			Action:    entry.Action,
			Target:    entry.Target,
			Detail:    entry.Detail,
			CreatedAt: entry.CreatedAt,
		})
	}
	return out
}
