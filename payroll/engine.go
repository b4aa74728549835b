/*
engine.go - Run orchestration

PURPOSE:
  Ties the pieces together for one payroll run:

    validate -> aggregate -> reconcile -> convert to dollars

  The engine is synchronous and side-effect free: it takes fully
  materialized inputs, runs to completion in a single pass, and returns
  both output tables plus any advisory warnings. A failed validation
  returns an error before anything is computed, so callers can keep their
  previous results untouched.

SEE ALSO:
  - aggregate.go: the classification and roll-up
  - reconcile.go: the diff columns
  - dollars.go:   the optional Dollars table
*/
package payroll

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Engine runs payroll computations. Safe to reuse across runs; it holds
// configuration only, never run state.
type Engine struct {
	location  *time.Location
	bonus     ScheduleSet
	surcharge decimal.Decimal
}

// New builds an engine. loc is the wall-clock zone for day/night
// classification; bonus is the premium-schedule allow-list; surcharge is the
// flat per-hour bonus premium.
func New(loc *time.Location, bonus ScheduleSet, surcharge decimal.Decimal) *Engine {
	return &Engine{location: loc, bonus: bonus, surcharge: surcharge}
}

// Result is the output of one run.
type Result struct {
	Hours    []Row
	Dollars  []Row
	Warnings []Warning
}

// Run executes one payroll pass.
//
// rates carries the optional pay-rate table: nil means no pay-rate file was
// supplied and the Dollars table is skipped entirely; a non-nil empty slice
// means a file was supplied but had no usable rows, which is a fatal
// validation failure.
func (e *Engine) Run(shifts []Shift, rates []PayRate) (*Result, error) {
	if len(shifts) == 0 {
		return nil, ErrMissingTimesheet
	}
	if rates != nil && len(rates) == 0 {
		return nil, ErrEmptyPayRates
	}

	result := &Result{
		Warnings: crossCheck(shifts, rates),
	}

	byEmployee := make(map[string][]Shift)
	for _, s := range shifts {
		byEmployee[s.Key()] = append(byEmployee[s.Key()], s)
	}

	rateByEmployee := make(map[string]PayRate, len(rates))
	for _, r := range rates {
		rateByEmployee[r.Key()] = r
	}

	converter := NewDollarConverter(e.surcharge)

	for _, emp := range NewAggregator(e.location, e.bonus).Aggregate(shifts) {
		reported := SumReported(byEmployee[emp.Key()])
		result.Hours = append(result.Hours, buildHoursRow(emp, reported))

		if rate, ok := rateByEmployee[emp.Key()]; ok {
			result.Dollars = append(result.Dollars, converter.Convert(emp, rate))
		}
	}

	return result, nil
}

// buildHoursRow applies the final 2-place rounding and the reconciliation
// diffs to one employee's aggregate buckets.
func buildHoursRow(emp EmployeeHours, reported ReportedTotals) Row {
	regular := emp.Buckets.Regular()
	overtime := emp.Buckets.Overtime()

	totalRegular := regular.Round(totalRoundPlaces)
	totalOT := overtime.Round(totalRoundPlaces)
	total := regular.Add(overtime).Round(totalRoundPlaces)

	diffs := Reconcile(totalRegular, totalOT, total, reported)

	return Row{
		FirstName: emp.FirstName,
		LastName:  emp.LastName,

		Buckets: emp.Buckets.Round(totalRoundPlaces),

		TotalRegular: totalRegular,
		TotalOT:      totalOT,
		Total:        total,

		DiffRegular: diffs.Regular,
		DiffOT:      diffs.OT,
		DiffTotal:   diffs.Total,
	}
}

// crossCheck compares the employee sets of the two inputs and warns about
// the differences. With no pay-rate file there is nothing to compare.
func crossCheck(shifts []Shift, rates []PayRate) []Warning {
	if rates == nil {
		return nil
	}

	inTimesheet := make(map[string]struct{})
	var timesheetOrder []string
	for _, s := range shifts {
		if _, ok := inTimesheet[s.Key()]; !ok {
			inTimesheet[s.Key()] = struct{}{}
			timesheetOrder = append(timesheetOrder, s.Key())
		}
	}

	inRates := make(map[string]struct{}, len(rates))
	var rateOrder []string
	for _, r := range rates {
		if _, ok := inRates[r.Key()]; !ok {
			inRates[r.Key()] = struct{}{}
			rateOrder = append(rateOrder, r.Key())
		}
	}

	var warnings []Warning
	if missing := subtract(timesheetOrder, inRates); len(missing) > 0 {
		warnings = append(warnings, Warning{
			Code:    WarnMissingPayRates,
			Message: fmt.Sprintf("missing pay rates for %s", strings.Join(missing, ", ")),
		})
	}
	if missing := subtract(rateOrder, inTimesheet); len(missing) > 0 {
		warnings = append(warnings, Warning{
			Code:    WarnMissingTimesheet,
			Message: fmt.Sprintf("missing timesheet for %s", strings.Join(missing, ", ")),
		})
	}
	return warnings
}

func subtract(keys []string, from map[string]struct{}) []string {
	var out []string
	for _, k := range keys {
		if _, ok := from[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
