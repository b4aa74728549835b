package timesheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/goalhome/payroll-engine/payroll"
)

// =============================================================================
// TIMESHEET NORMALIZATION
// =============================================================================

// Normalize converts raw sheet rows (header row first) into Shift records.
// Bad rows are skipped with a warning; only an unusable header set is fatal.
func Normalize(rows [][]string) ([]payroll.Shift, []payroll.Warning, error) {
	if len(rows) == 0 {
		return nil, nil, nil
	}

	schema, err := DetectSchema(rows[0])
	if err != nil {
		return nil, nil, err
	}
	idx := indexHeaders(rows[0])

	var (
		shifts   []payroll.Shift
		warnings []payroll.Warning
	)
	for i, row := range rows[1:] {
		rowNumber := i + 2 // 1-based, counting the header row

		if isBlank(row) {
			continue
		}

		var (
			shift payroll.Shift
			skip  string
			drop  bool
		)
		switch schema {
		case SchemaCanonical:
			shift, skip = normalizeCanonicalRow(idx, row)
		case SchemaModern:
			shift, skip, drop = normalizeModernRow(idx, row)
		}

		if drop {
			continue // unpaid leave, not payroll
		}
		if skip != "" {
			warnings = append(warnings, payroll.SkippedRow("timesheet", rowNumber, skip))
			continue
		}
		shifts = append(shifts, shift)
	}

	return shifts, warnings, nil
}

func normalizeCanonicalRow(idx headerIndex, row []string) (payroll.Shift, string) {
	first := idx.cell(row, "First Name")
	last := idx.cell(row, "Last Name")
	if first == "" || last == "" {
		return payroll.Shift{}, "missing employee name"
	}

	start, ok := parseTimestamp(idx.cell(row, "Start Time"))
	if !ok {
		return payroll.Shift{}, fmt.Sprintf("unparseable start time %q", idx.cell(row, "Start Time"))
	}
	end, ok := parseTimestamp(idx.cell(row, "End Time"))
	if !ok {
		return payroll.Shift{}, fmt.Sprintf("unparseable end time %q", idx.cell(row, "End Time"))
	}

	return payroll.Shift{
		FirstName: first,
		LastName:  last,
		Start:     start,
		End:       end,
		Schedule:  idx.cell(row, "Schedule"),
		Regular:   parseHours(idx.cell(row, "Regular")),
		OT:        parseHours(idx.cell(row, "OT")),
	}, ""
}

func normalizeModernRow(idx headerIndex, row []string) (shift payroll.Shift, skip string, drop bool) {
	first := idx.cell(row, "First name")
	last := idx.cell(row, "Last name")
	if first == "" || last == "" {
		return payroll.Shift{}, "missing employee name", false
	}

	in := idx.cell(row, "In")
	out := idx.cell(row, "Out")
	if in == "" || out == "" {
		// Leave rows have no clock times. Unpaid leave is silently not
		// payroll; anything else missing a clock time gets a warning.
		if idx.cell(row, modernUnpaidColumn) != "" {
			return payroll.Shift{}, "", true
		}
		return payroll.Shift{}, "missing clock in/out time", false
	}

	start, ok := parseDateAndClock(idx.cell(row, "Start Date"), in)
	if !ok {
		return payroll.Shift{}, fmt.Sprintf("unparseable start %q %q", idx.cell(row, "Start Date"), in), false
	}
	end, ok := parseDateAndClock(idx.cell(row, "End Date"), out)
	if !ok {
		return payroll.Shift{}, fmt.Sprintf("unparseable end %q %q", idx.cell(row, "End Date"), out), false
	}

	return payroll.Shift{
		FirstName: first,
		LastName:  last,
		Start:     start,
		End:       end,
		Schedule:  idx.cell(row, "Type"),
		Regular:   parseHours(idx.cell(row, "Total Regular")),
		OT:        parseHours(idx.cell(row, "Total overtime")),
	}, "", false
}

// =============================================================================
// PAY RATE NORMALIZATION
// =============================================================================

// NormalizePayRates converts raw pay-rate sheet rows into PayRate records.
// Rows with unusable rates are skipped with a warning. The engine treats a
// supplied-but-empty result as fatal, so an empty sheet still returns a
// non-nil slice.
func NormalizePayRates(rows [][]string) ([]payroll.PayRate, []payroll.Warning, error) {
	rates := []payroll.PayRate{}
	if len(rows) == 0 {
		return rates, nil, nil
	}

	idx := indexHeaders(rows[0])
	if missing := idx.missing(payRateColumns); len(missing) > 0 {
		return nil, nil, &payroll.MissingColumnsError{Table: "pay rates", Columns: missing}
	}

	var warnings []payroll.Warning
	for i, row := range rows[1:] {
		rowNumber := i + 2

		if isBlank(row) {
			continue
		}

		first := idx.cell(row, "FIRST")
		last := idx.cell(row, "LAST")
		if first == "" || last == "" {
			warnings = append(warnings, payroll.SkippedRow("pay rates", rowNumber, "missing employee name"))
			continue
		}

		dayRate, err1 := decimal.NewFromString(idx.cell(row, "Day Rate"))
		nightRate, err2 := decimal.NewFromString(idx.cell(row, "Night Rate"))
		if err1 != nil || err2 != nil {
			warnings = append(warnings, payroll.SkippedRow("pay rates", rowNumber, "non-numeric rate"))
			continue
		}

		rates = append(rates, payroll.PayRate{
			FirstName: first,
			LastName:  last,
			DayRate:   dayRate,
			NightRate: nightRate,
		})
	}

	return rates, warnings, nil
}

// =============================================================================
// CELL PARSERS
// =============================================================================

// timestampFormats covers the full timestamps seen in canonical exports.
// The first entry is the format the upstream system writes today.
var timestampFormats = []string{
	"01-02-2006 15:04:05",
	"01-02-2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	time.RFC3339,
}

var dateFormats = []string{
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006-01-02",
}

var clockFormats = []string{
	"3:04 PM",
	"03:04 PM",
	"15:04",
	"15:04:05",
}

// parseTimestamp reads a full timestamp cell. Numeric cells are Excel date
// serials. All values are interpreted as UTC instants; the engine converts
// to local wall-clock time when it classifies.
func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return parsed.UTC(), true
		}
		return time.Time{}, false
	}

	for _, format := range timestampFormats {
		if parsed, err := time.ParseInLocation(format, value, time.UTC); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// parseDateAndClock combines a date cell with a clock-time cell.
func parseDateAndClock(dateValue, clockValue string) (time.Time, bool) {
	if dateValue == "" || clockValue == "" {
		return time.Time{}, false
	}

	var date time.Time
	ok := false
	if serial, err := strconv.ParseFloat(dateValue, 64); err == nil {
		if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
			date, ok = parsed.UTC(), true
		}
	} else {
		for _, format := range dateFormats {
			if parsed, err := time.ParseInLocation(format, dateValue, time.UTC); err == nil {
				date, ok = parsed, true
				break
			}
		}
	}
	if !ok {
		return time.Time{}, false
	}

	for _, format := range clockFormats {
		if clock, err := time.Parse(format, strings.ToUpper(clockValue)); err == nil {
			return time.Date(date.Year(), date.Month(), date.Day(),
				clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseHours reads a reported-hours cell: plain numbers ("4", "4.5") or
// duration strings ("04:00", "2:19"). Empty or unreadable cells are null and
// count as zero during reconciliation.
func parseHours(value string) decimal.NullDecimal {
	if value == "" {
		return decimal.NullDecimal{}
	}

	if d, err := decimal.NewFromString(value); err == nil {
		return decimal.NullDecimal{Decimal: d, Valid: true}
	}

	parts := strings.SplitN(value, ":", 2)
	if len(parts) == 2 {
		hours, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		mins, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 == nil && err2 == nil && mins >= 0 && mins < 60 {
			d := decimal.NewFromInt(int64(hours)).
				Add(decimal.NewFromInt(int64(mins)).Div(decimal.NewFromInt(60)))
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}

	return decimal.NullDecimal{}
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
