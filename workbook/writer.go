package workbook

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/goalhome/payroll-engine/payroll"
)

// =============================================================================
// OUTPUT WORKBOOK
// =============================================================================

// Column layouts mirror the review sheets payroll has always used:
// "Paddington" is the historical label for the bonus buckets.
var hoursHeader = []string{
	"Last Name", "First Name",
	"Day", "Night", "Paddington Night", "Night OT", "Paddington Night OT",
	"Day OT", "Paddington Day OT", "Paddington Day",
	"Total Regular", "Total OT", "Total Hours",
	"Diff Regular", "Diff OT", "Diff Total",
}

var dollarsHeader = []string{
	"Last Name", "First Name",
	"Day Pay", "Night Pay", "Paddington Night Pay", "Night OT Pay", "Paddington Night OT Pay",
	"Day OT Pay", "Paddington Day OT Pay", "Paddington Day Pay",
	"Pay", "OT Pay", "Total Pay",
}

// Fill colors for the diff columns: green for over-reported hours recovered,
// red for shortfalls.
const (
	greenFill = "C6EFCE"
	redFill   = "FFC7CE"
)

// Write renders the Hours and (when present) Pay sheets into w as an .xlsx
// workbook.
func Write(w io.Writer, hours, dollars []payroll.Row, hoursSheet, paySheet string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", hoursSheet); err != nil {
		return err
	}
	if err := writeTable(f, hoursSheet, "PayrollHours", hoursHeader, hours, true); err != nil {
		return fmt.Errorf("hours sheet: %w", err)
	}

	if len(dollars) > 0 {
		if _, err := f.NewSheet(paySheet); err != nil {
			return err
		}
		if err := writeTable(f, paySheet, "PayrollPay", dollarsHeader, dollars, false); err != nil {
			return fmt.Errorf("pay sheet: %w", err)
		}
	}

	return f.Write(w)
}

func writeTable(f *excelize.File, sheet, tableName string, header []string, rows []payroll.Row, withDiffs bool) error {
	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return err
	}

	for i, row := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), rowCells(row, withDiffs)); err != nil {
			return err
		}
	}

	if withDiffs {
		if err := colorDiffCells(f, sheet, rows, len(header)); err != nil {
			return err
		}
	}

	if err := sizeColumns(f, sheet, header, rows); err != nil {
		return err
	}

	lastCell, err := excelize.CoordinatesToCellName(len(header), len(rows)+1)
	if err != nil {
		return err
	}
	return f.AddTable(sheet, &excelize.Table{
		Range:     "A1:" + lastCell,
		Name:      tableName,
		StyleName: "TableStyleMedium9",
	})
}

func rowCells(row payroll.Row, withDiffs bool) *[]interface{} {
	b := row.Buckets
	cells := []interface{}{
		row.LastName, row.FirstName,
		cell(b.Day), cell(b.Night), cell(b.BonusNight), cell(b.NightOT), cell(b.BonusNightOT),
		cell(b.DayOT), cell(b.BonusDayOT), cell(b.BonusDay),
		cell(row.TotalRegular), cell(row.TotalOT), cell(row.Total),
	}
	if withDiffs {
		cells = append(cells, cell(row.DiffRegular), cell(row.DiffOT), cell(row.DiffTotal))
	}
	return &cells
}

func cell(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// colorDiffCells applies the red/green review highlighting to the three
// trailing diff columns.
func colorDiffCells(f *excelize.File, sheet string, rows []payroll.Row, columns int) error {
	green, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{greenFill}},
	})
	if err != nil {
		return err
	}
	red, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{redFill}},
	})
	if err != nil {
		return err
	}

	for i, row := range rows {
		diffs := []decimal.Decimal{row.DiffRegular, row.DiffOT, row.DiffTotal}
		for j, d := range diffs {
			if d.IsZero() {
				continue
			}
			style := green
			if d.IsNegative() {
				style = red
			}
			name, err := excelize.CoordinatesToCellName(columns-len(diffs)+j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, name, name, style); err != nil {
				return err
			}
		}
	}
	return nil
}

// sizeColumns widens each column to its longest value plus padding.
func sizeColumns(f *excelize.File, sheet string, header []string, rows []payroll.Row) error {
	for i, h := range header {
		width := len(h)
		for _, row := range rows {
			for _, s := range []string{row.LastName, row.FirstName} {
				if i < 2 && len(s) > width {
					width = len(s)
				}
			}
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(width+4)); err != nil {
			return err
		}
	}
	return nil
}
