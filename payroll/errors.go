/*
errors.go - Error taxonomy for a payroll run

PURPOSE:
  Distinguishes the three failure classes of a run:

  1. Fatal validation failures - abort the run before any aggregation,
     produce no output, and must leave the previous run's results alone.
  2. Per-row soft failures - the row is skipped with an advisory Warning;
     the batch continues. The engine never throws for a single bad row.
  3. Per-employee advisories - informational mismatches between the
     timesheet and the pay rates. Never blocking.

  Reconciliation discrepancies are none of these: they are the intended
  output (the diff columns), not errors.

USAGE:
  Callers branch with errors.Is:

    if errors.Is(err, payroll.ErrMissingTimesheet) { ... }

  or inspect structured errors:

    var missing *payroll.MissingColumnsError
    if errors.As(err, &missing) { ... missing.Columns ... }
*/
package payroll

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Fatal validation failures
// =============================================================================

var (
	// ErrMissingTimesheet is returned when no timesheet rows were supplied.
	ErrMissingTimesheet = errors.New("missing timesheet data")

	// ErrEmptyPayRates is returned when a pay-rate file was supplied but
	// contains no rows. An absent pay-rate file is fine (the dollars table
	// is skipped); an empty one is a user mistake worth stopping for.
	ErrEmptyPayRates = errors.New("no rows in the provided pay rates data")

	// ErrMissingColumns is the sentinel behind MissingColumnsError.
	ErrMissingColumns = errors.New("missing required columns")
)

// MissingColumnsError reports which required columns an input table lacks.
type MissingColumnsError struct {
	Table   string // "timesheet" or "pay rates"
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing %s headers for %s", e.Table, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}

// IsValidationFailure reports whether the error aborts a run.
func IsValidationFailure(err error) bool {
	return errors.Is(err, ErrMissingTimesheet) ||
		errors.Is(err, ErrEmptyPayRates) ||
		errors.Is(err, ErrMissingColumns)
}

// =============================================================================
// WARNINGS - Advisory, never fatal
// =============================================================================

type WarningCode string

const (
	// WarnSkippedRow: a timesheet or pay-rate row was excluded.
	WarnSkippedRow WarningCode = "skipped_row"

	// WarnMissingPayRates: employees on the timesheet without a pay-rate
	// record. They appear in the hours table but get no dollar row.
	WarnMissingPayRates WarningCode = "missing_pay_rates"

	// WarnMissingTimesheet: pay-rate records without any timesheet shifts.
	WarnMissingTimesheet WarningCode = "missing_timesheet"
)

// Warning is an advisory condition surfaced to the user alongside the
// output. Warnings never stop a run.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// SkippedRow builds the standard warning for an excluded input row.
// Row numbers are 1-based as the user sees them in the spreadsheet.
func SkippedRow(table string, rowNumber int, reason string) Warning {
	return Warning{
		Code:    WarnSkippedRow,
		Message: fmt.Sprintf("%s row %d skipped: %s", table, rowNumber, reason),
	}
}
