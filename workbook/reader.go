/*
Package workbook reads uploaded timesheet/pay-rate spreadsheets and renders
the output workbook.

PURPOSE:
  The payroll core never touches file formats; this package owns both sides
  of the spreadsheet boundary:

  - ReadSheet: raw rows out of .xlsx (excelize) or legacy .xls (extrame/xls)
    uploads, by sheet name with a first-sheet fallback.
  - Write: the two-table output workbook (Hours, Pay) with diff highlighting,
    matching the layout payroll reviewers have always received.

SEE ALSO:
  - writer.go: output rendering
  - timesheet:  turns the raw rows into canonical records
*/
package workbook

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// maxLegacyRows bounds how much of a legacy .xls sheet is read.
const maxLegacyRows = 100000

// ReadSheet extracts raw cell rows from an uploaded workbook. filename is
// only used for extension sniffing. For .xlsx the named sheet is used when
// present, otherwise the first sheet; legacy .xls files must contain a
// single sheet.
func ReadSheet(r io.Reader, filename, sheetName string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		return readLegacy(data)
	default:
		return readModern(data, sheetName)
	}
}

func readLegacy(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	if wb.NumSheets() > 1 {
		return nil, fmt.Errorf("multiple worksheets found; please upload a file with a single sheet")
	}

	rows := wb.ReadAllCells(maxLegacyRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet is empty")
	}
	return rows, nil
}

func readModern(data []byte, sheetName string) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	name := ""
	for _, candidate := range file.GetSheetList() {
		if strings.EqualFold(candidate, sheetName) {
			name = candidate
			break
		}
	}
	if name == "" {
		name = file.GetSheetName(0)
	}
	if name == "" {
		return nil, fmt.Errorf("no worksheet found")
	}

	rows, err := file.GetRows(name)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet %q is empty", name)
	}
	return rows, nil
}

// OutputName derives the download filename from the uploaded one: extension
// stripped, suffix appended, always .xlsx.
func OutputName(inputName, suffix string) string {
	base := filepath.Base(inputName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + suffix + ".xlsx"
}
