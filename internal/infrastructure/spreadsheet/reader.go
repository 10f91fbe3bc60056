package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"firewatch/internal/domain/maintenance"
	"firewatch/internal/errs"
)

var (
	ErrInvalidWorkbook = errors.New("not a readable .xlsx workbook")
	ErrEmptyWorkbook   = errors.New("workbook has no rows")
	ErrMissingHeaders  = errors.New("required headers missing")
)

// Row is one importable line of a sheet. Due dates hold only the cells that parsed.
type Row struct {
	Number      int
	AssetID     string
	Family      string
	Location    string
	ServiceDate time.Time
	Level       maintenance.ServiceLevel
	Approved    maintenance.Approval
	Observation string
	ActionPlan  string
	Due         maintenance.DueDates
	RecordedBy  string
}

type SkippedRow struct {
	Number int    `json:"row"`
	Reason string `json:"reason"`
}

type ReadResult struct {
	Sheet   string
	Rows    []Row
	Skipped []SkippedRow
}

// Read parses the first sheet of a workbook. Columns are resolved by header name, never by position.
func Read(r io.Reader) (ReadResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ReadResult{}, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ReadResult{}, ErrEmptyWorkbook
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return ReadResult{}, errs.Wrapf(err, "read sheet %s", sheet)
	}
	if len(rows) == 0 {
		return ReadResult{}, ErrEmptyWorkbook
	}

	index, err := mapHeader(rows[0])
	if err != nil {
		return ReadResult{}, err
	}

	result := ReadResult{Sheet: sheet}
	width := len(rows[0])
	for i, cells := range rows[1:] {
		number := i + 2
		cells = pad(cells, width)
		if isBlank(cells) {
			continue
		}

		row, reason := parseRow(index, cells)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedRow{Number: number, Reason: reason})
			continue
		}
		row.Number = number
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

func mapHeader(header []string) (map[column]int, error) {
	index := make(map[column]int, len(header))
	for i, cell := range header {
		col, ok := lookupColumn(cell)
		if !ok {
			continue
		}
		if _, seen := index[col]; !seen {
			index[col] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, string(col))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingHeaders, strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(index map[column]int, cells []string) (Row, string) {
	get := func(col column) string {
		i, ok := index[col]
		if !ok {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	row := Row{
		AssetID:     get(colAssetID),
		Family:      get(colFamily),
		Location:    get(colLocation),
		Approved:    maintenance.ParseApproval(get(colApproved)),
		Observation: get(colObservation),
		ActionPlan:  get(colActionPlan),
		RecordedBy:  get(colRecordedBy),
		Due:         maintenance.DueDates{},
	}
	if row.AssetID == "" {
		return Row{}, "missing asset id"
	}

	serviceDate, ok := parseCellDate(get(colServiceDate))
	if !ok {
		return Row{}, fmt.Sprintf("invalid service date %q", get(colServiceDate))
	}
	row.ServiceDate = serviceDate

	level, err := maintenance.ParseServiceLevel(get(colServiceLevel))
	if err != nil {
		return Row{}, fmt.Sprintf("invalid service level %q", get(colServiceLevel))
	}
	row.Level = level

	for col, category := range map[column]maintenance.Category{
		colNextInspection:  maintenance.CategoryInspection,
		colNextTier2:       maintenance.CategoryTier2,
		colNextTier3:       maintenance.CategoryTier3,
		colNextHydrostatic: maintenance.CategoryHydrostatic,
	} {
		if due, ok := parseCellDate(get(col)); ok {
			row.Due[category] = maintenance.FormatDate(due)
		}
	}
	return row, ""
}

// parseCellDate accepts text dates and raw Excel date serials.
func parseCellDate(raw string) (time.Time, bool) {
	if parsed, ok := maintenance.ParseDate(raw); ok {
		return parsed, true
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || serial <= 0 {
		return time.Time{}, false
	}
	converted, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := converted.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

func pad(cells []string, width int) []string {
	if len(cells) >= width {
		return cells
	}
	padded := make([]string, width)
	copy(padded, cells)
	return padded
}

func isBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
