package spreadsheet

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"firewatch/internal/domain/maintenance"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestWriteThenReadKeepsRecords(t *testing.T) {
	rows := []ExportRow{
		{
			Family:   "extinguisher",
			Location: "Warehouse A",
			Record: maintenance.ServiceRecord{
				AssetID:     "EXT-001",
				ServiceDate: "2024-06-15",
				Level:       maintenance.LevelTier3,
				Approved:    maintenance.ApprovalNo,
				Observation: "manômetro com defeito",
				ActionPlan:  "Replace the pressure gauge immediately.",
				Due: maintenance.DueDates{
					maintenance.CategoryInspection: "2024-07-15",
					maintenance.CategoryTier2:      "2025-06-15",
					maintenance.CategoryTier3:      "2029-06-15",
				},
				RecordedBy: "ana",
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))

	result, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, exportSheet, result.Sheet)
	require.Empty(t, result.Skipped)
	require.Len(t, result.Rows, 1)

	got := result.Rows[0]
	require.Equal(t, 2, got.Number)
	require.Equal(t, "EXT-001", got.AssetID)
	require.Equal(t, "extinguisher", got.Family)
	require.Equal(t, "Warehouse A", got.Location)
	require.Equal(t, "2024-06-15", maintenance.FormatDate(got.ServiceDate))
	require.Equal(t, maintenance.LevelTier3, got.Level)
	require.Equal(t, maintenance.ApprovalNo, got.Approved)
	require.Equal(t, "manômetro com defeito", got.Observation)
	require.Equal(t, rows[0].Record.Due, got.Due)
	require.Equal(t, "ana", got.RecordedBy)
}

func TestReadResolvesAliasedHeadersInAnyOrder(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Observações", "Nível Serviço", "Data Serviço", "ID Equipamento", "Próxima Inspeção"},
		{"lacre violado", "Inspeção", "15/01/2024", "EXT-9", "2024-02-15"},
	})

	result, err := Read(buf)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	got := result.Rows[0]
	require.Equal(t, "EXT-9", got.AssetID)
	require.Equal(t, maintenance.LevelInspection, got.Level)
	require.Equal(t, "2024-01-15", maintenance.FormatDate(got.ServiceDate))
	require.Equal(t, "lacre violado", got.Observation)
	require.Equal(t, maintenance.ApprovalNotApplicable, got.Approved)

	due, ok := got.Due.Get(maintenance.CategoryInspection)
	require.True(t, ok)
	require.Equal(t, "2024-02-15", due)
}

func TestReadPadsRaggedRowsAndReportsSkipped(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"asset_id", "service_date", "service_level", "approved", "observation"},
		{"EXT-1", "2024-01-01", "Inspection"},
		{"", "2024-01-02", "Inspection", "yes"},
		{},
		{"EXT-2", "not a date", "Inspection"},
		{"EXT-3", "2024-01-03", "Overhaul"},
		{"EXT-4", "2024-01-04", "tier2", "sim"},
	})

	result, err := Read(buf)
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	require.Equal(t, "EXT-1", result.Rows[0].AssetID)
	require.Equal(t, "", result.Rows[0].Observation)
	require.Equal(t, "EXT-4", result.Rows[1].AssetID)
	require.Equal(t, 7, result.Rows[1].Number)
	require.Equal(t, maintenance.ApprovalYes, result.Rows[1].Approved)

	require.Len(t, result.Skipped, 3)
	require.Equal(t, 3, result.Skipped[0].Number)
	require.Equal(t, "missing asset id", result.Skipped[0].Reason)
	require.Equal(t, 5, result.Skipped[1].Number)
	require.Equal(t, 6, result.Skipped[2].Number)
}

func TestReadRejectsMissingRequiredHeaders(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"asset_id", "observation"},
		{"EXT-1", "ok"},
	})

	_, err := Read(buf)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingHeaders))
	require.Contains(t, err.Error(), "service_date")
	require.Contains(t, err.Error(), "service_level")
}

func TestReadAcceptsExcelDateSerials(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"asset_id", "service_date", "service_level"},
		{"EXT-1", 45306, "Inspection"},
	})

	result, err := Read(buf)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.Equal(t, "2024-01-15", maintenance.FormatDate(result.Rows[0].ServiceDate))
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"  Asset ID ":       "asset_id",
		"Próxima Inspeção":  "proxima_inspecao",
		"NEXT-TIER2":        "next_tier2",
		"Plano de Ação":     "plano_de_acao",
		"__obs__":           "obs",
	}
	for raw, want := range cases {
		require.Equal(t, want, normalizeHeader(raw), raw)
	}
}

func TestReadRejectsNonWorkbook(t *testing.T) {
	_, err := Read(strings.NewReader("asset_id,service_date\nEXT-1,2024-01-01\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidWorkbook))
}

func TestStatusHeaderDoesNotFeedApproval(t *testing.T) {
	_, ok := lookupColumn("Status")
	require.False(t, ok)

	buf := buildWorkbook(t, [][]any{
		{"asset_id", "service_date", "service_level", "status"},
		{"EXT-1", "2024-01-01", "Maintenance-Tier2", "ok"},
	})

	result, err := Read(buf)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.Equal(t, maintenance.ApprovalNotApplicable, result.Rows[0].Approved)
}
