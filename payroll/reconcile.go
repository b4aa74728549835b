/*
reconcile.go - Diff calculation against reported totals

PURPOSE:
  Compares the engine's aggregated hours against the Regular/OT figures the
  employees reported on their shifts. The signed differences are the product
  of the whole system: a non-zero diff flags a payroll entry for manual
  review. A diff is never an error.

NON-ASSOCIATIVITY:
  The reported total is summed as (Regular + OT) per shift, NOT as
  sum(Regular) + sum(OT). The three sums are rounded to 2 places
  independently before differencing, so DiffTotal can legitimately differ
  from DiffRegular + DiffOT. Downstream review depends on these exact
  figures; do not "simplify" the arithmetic.

ZERO NORMALIZATION:
  Any diff that rounds to zero is reported as exactly 0 so the UI can treat
  "0" as "no discrepancy" without float-equality pitfalls.
*/
package payroll

import "github.com/shopspring/decimal"

// ReportedTotals is the employee-supplied ground truth summed across the
// employee's original shift records, each component independently rounded
// to 2 places. Missing values count as zero.
type ReportedTotals struct {
	Regular decimal.Decimal
	OT      decimal.Decimal
	Total   decimal.Decimal
}

// SumReported accumulates the reported Regular/OT figures for one employee's
// shifts. Total is the independent per-shift (Regular + OT) sum.
func SumReported(shifts []Shift) ReportedTotals {
	var regular, ot, total decimal.Decimal
	for _, s := range shifts {
		r := orZero(s.Regular)
		o := orZero(s.OT)
		regular = regular.Add(r)
		ot = ot.Add(o)
		total = total.Add(r.Add(o))
	}
	return ReportedTotals{
		Regular: regular.Round(totalRoundPlaces),
		OT:      ot.Round(totalRoundPlaces),
		Total:   total.Round(totalRoundPlaces),
	}
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// Diffs holds the signed discrepancies for one employee.
type Diffs struct {
	Regular decimal.Decimal
	OT      decimal.Decimal
	Total   decimal.Decimal
}

// Reconcile diffs the aggregated 2-place totals against the reported totals.
func Reconcile(totalRegular, totalOT, total decimal.Decimal, reported ReportedTotals) Diffs {
	return Diffs{
		Regular: zeroNormalize(totalRegular.Sub(reported.Regular).Round(totalRoundPlaces)),
		OT:      zeroNormalize(totalOT.Sub(reported.OT).Round(totalRoundPlaces)),
		Total:   zeroNormalize(total.Sub(reported.Total).Round(totalRoundPlaces)),
	}
}

// zeroNormalize collapses anything that rounds to zero (including a signed
// zero) to the canonical 0.
func zeroNormalize(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return d
}
