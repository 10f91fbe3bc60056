package spreadsheet

import (
	"io"

	"github.com/xuri/excelize/v2"

	"firewatch/internal/domain/maintenance"
	"firewatch/internal/errs"
)

const exportSheet = "Service Records"

// ExportRow is a service record with the asset attributes the sheet repeats on every line.
type ExportRow struct {
	Family   string
	Location string
	Record   maintenance.ServiceRecord
}

// Write renders rows as a workbook with a styled, frozen header row.
func Write(w io.Writer, rows []ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return errs.Wrap(err, "rename sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#FDE2E1"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return errs.Wrap(err, "create header style")
	}

	header := make([]any, 0, len(exportColumns))
	for i, col := range exportColumns {
		header = append(header, col.title)
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return errs.Wrap(err, "convert column number")
		}
		if err := f.SetColWidth(exportSheet, name, name, col.width); err != nil {
			return errs.Wrap(err, "set column width")
		}
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return errs.Wrap(err, "write header row")
	}
	last, err := excelize.CoordinatesToCellName(len(exportColumns), 1)
	if err != nil {
		return errs.Wrap(err, "convert coordinates")
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return errs.Wrap(err, "set header style")
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errs.Wrap(err, "convert coordinates")
		}
		values := rowValues(row)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return errs.Wrapf(err, "write row %d", i+2)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return errs.Wrap(err, "freeze header")
	}

	if err := f.Write(w); err != nil {
		return errs.Wrap(err, "write workbook")
	}
	return nil
}

func rowValues(row ExportRow) []any {
	record := row.Record
	values := make([]any, 0, len(exportColumns))
	for _, col := range exportColumns {
		var value string
		switch col.name {
		case colAssetID:
			value = record.AssetID
		case colFamily:
			value = row.Family
		case colLocation:
			value = row.Location
		case colServiceDate:
			value = record.ServiceDate
			if normalized, ok := maintenance.NormalizeDate(record.ServiceDate); ok {
				value = normalized
			}
		case colServiceLevel:
			value = record.Level.String()
		case colApproved:
			value = string(record.Approved)
		case colObservation:
			value = record.Observation
		case colActionPlan:
			value = record.ActionPlan
		case colNextInspection:
			value, _ = record.Due.Get(maintenance.CategoryInspection)
		case colNextTier2:
			value, _ = record.Due.Get(maintenance.CategoryTier2)
		case colNextTier3:
			value, _ = record.Due.Get(maintenance.CategoryTier3)
		case colNextHydrostatic:
			value, _ = record.Due.Get(maintenance.CategoryHydrostatic)
		case colRecordedBy:
			value = record.RecordedBy
		}
		values = append(values, value)
	}
	return values
}
