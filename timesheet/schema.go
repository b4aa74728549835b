/*
Package timesheet normalizes uploaded spreadsheet rows into the canonical
records the payroll engine consumes.

PURPOSE:
  Two generations of timesheet exports are in circulation:

  - the canonical export, with "First Name"/"Start Time"/"Schedule"-style
    columns and full timestamps per shift;
  - the modern export, with "First name"/"Start Date"+"In"/"Type"-style
    columns, clock times like "03:00 PM" and duration strings like "04:00".

  Each generation is an explicit schema variant with its own normalization
  function producing payroll.Shift. Nothing downstream ever looks at raw
  column names.

FAILURE POLICY:
  A header set matching neither variant is fatal for the whole run
  (payroll.MissingColumnsError). Individual bad rows are never fatal: they
  are skipped with an advisory warning. Rows that represent unpaid time off
  are dropped silently - they are not payroll.

SEE ALSO:
  - normalize.go: row parsing for both variants and the pay-rate sheet
*/
package timesheet

import (
	"strings"

	"github.com/goalhome/payroll-engine/payroll"
)

// Schema identifies which export generation produced an uploaded sheet.
type Schema int

const (
	SchemaUnknown Schema = iota
	SchemaCanonical
	SchemaModern
)

func (s Schema) String() string {
	switch s {
	case SchemaCanonical:
		return "canonical"
	case SchemaModern:
		return "modern"
	default:
		return "unknown"
	}
}

// Required column sets per variant, and for the pay-rate sheet. Matching is
// case-insensitive on trimmed header names.
var (
	canonicalColumns = []string{
		"First Name", "Last Name", "Start Time", "End Time", "Regular", "OT", "Schedule",
	}

	modernColumns = []string{
		"First name", "Last name", "Start Date", "In", "End Date", "Out",
		"Type", "Total Regular", "Total overtime",
	}

	payRateColumns = []string{"LAST", "FIRST", "Day Rate", "Night Rate"}
)

// Optional modern column marking unpaid-leave rows.
const modernUnpaidColumn = "Total unpaid time off hours"

// headerIndex maps normalized column names to their position in the header
// row.
type headerIndex map[string]int

func indexHeaders(row []string) headerIndex {
	idx := make(headerIndex, len(row))
	for i, name := range row {
		name = normalizeHeader(name)
		if name == "" {
			continue
		}
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (h headerIndex) missing(columns []string) []string {
	var out []string
	for _, c := range columns {
		if _, ok := h[normalizeHeader(c)]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// cell returns the trimmed value of the named column, or "" when the row is
// ragged or the column absent.
func (h headerIndex) cell(row []string, column string) string {
	i, ok := h[normalizeHeader(column)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// DetectSchema classifies a header row. When neither variant matches, the
// error reports the canonical columns that are missing, since that is the
// set users are asked to provide.
func DetectSchema(headers []string) (Schema, error) {
	idx := indexHeaders(headers)

	if len(idx.missing(canonicalColumns)) == 0 {
		return SchemaCanonical, nil
	}
	if len(idx.missing(modernColumns)) == 0 {
		return SchemaModern, nil
	}

	return SchemaUnknown, &payroll.MissingColumnsError{
		Table:   "timesheet",
		Columns: idx.missing(canonicalColumns),
	}
}
