/*
Package payroll implements the GoalHome payroll aggregation engine.

PURPOSE:
  Converts raw per-shift timesheet records into aggregated payroll figures
  (hours and, optionally, dollars) per employee per pay period, and
  reconciles the computed totals against the externally reported
  Regular/OT figures so discrepancies can be corrected by hand.

KEY CONCEPTS IN THIS FILE (types.go):
  - Shift: One recorded work interval for one employee
  - PayRate: Day/night hourly rates for one employee
  - MinuteBucket: Per-shift classified minute counters (8 categories)
  - HourBucket: The same 8 categories expressed in hours
  - EmployeeHours: Aggregated hour buckets for one employee
  - Row: One output line of the Hours or Dollars table

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Purity: The engine is a single-pass, in-memory batch computation;
     it performs no I/O and holds no state between runs
  3. Soft failure: A malformed shift contributes zero minutes instead of
     aborting the batch; the discrepancy surfaces in the diff columns

SEE ALSO:
  - timerange.go: Minute expansion and week numbering
  - classify.go:  Day/night and bonus-schedule classification
  - aggregate.go: Shift -> week -> employee roll-up
  - reconcile.go: Diff calculation against reported totals
  - dollars.go:   Hour-to-dollar conversion
*/
package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUT RECORDS
// =============================================================================

// Shift is one recorded work interval for one employee. Start and End are
// stored as UTC instants; day/night classification converts them into the
// engine's configured location first.
//
// Regular and OT are the hours the employee reported for the shift. They are
// never used for classification, only for reconciliation.
type Shift struct {
	FirstName string
	LastName  string
	Start     time.Time
	End       time.Time
	Schedule  string
	Regular   decimal.NullDecimal
	OT        decimal.NullDecimal
}

// Key returns the canonical employee key for the shift: the upper-cased
// "FIRST LAST" full name. All grouping and pay-rate matching uses this key.
func (s Shift) Key() string {
	return EmployeeKey(s.FirstName, s.LastName)
}

// PayRate holds the hourly rates for one employee. Matched to shifts by
// case-insensitive full-name equality. Employees without a PayRate still
// appear in the hours table but are skipped for the dollars table.
type PayRate struct {
	FirstName string
	LastName  string
	DayRate   decimal.Decimal
	NightRate decimal.Decimal
}

// Key returns the canonical employee key for the pay-rate record.
func (r PayRate) Key() string {
	return EmployeeKey(r.FirstName, r.LastName)
}

// EmployeeKey builds the canonical grouping key from a first and last name.
func EmployeeKey(firstName, lastName string) string {
	first := strings.ToUpper(strings.TrimSpace(firstName))
	last := strings.ToUpper(strings.TrimSpace(lastName))
	return first + " " + last
}

// =============================================================================
// MINUTE AND HOUR BUCKETS - 8 classification categories
// =============================================================================

// MinuteBucket counts classified minutes for a single shift occurrence.
//
// INVARIANT: the sum of all eight counters equals the number of minutes in
// the shift's half-open [start, end) expansion.
type MinuteBucket struct {
	Day          int
	Night        int
	DayOT        int
	NightOT      int
	BonusDay     int
	BonusNight   int
	BonusDayOT   int
	BonusNightOT int
}

// Total returns the number of classified minutes.
func (b MinuteBucket) Total() int {
	return b.Day + b.Night + b.DayOT + b.NightOT +
		b.BonusDay + b.BonusNight + b.BonusDayOT + b.BonusNightOT
}

// shiftRoundPlaces is the intermediate precision applied when a single
// shift's minutes are converted to hours. Rounding here, before the week and
// employee sums, guards against division artifacts without compounding
// rounding error at the totals.
const shiftRoundPlaces = 8

// totalRoundPlaces is the precision of everything the engine reports:
// per-employee bucket hours, totals, diffs and dollars.
const totalRoundPlaces = 2

var sixty = decimal.NewFromInt(60)

// Hours converts the minute counters to hours, each rounded to 8 places.
func (b MinuteBucket) Hours() HourBucket {
	toHours := func(minutes int) decimal.Decimal {
		return decimal.NewFromInt(int64(minutes)).Div(sixty).Round(shiftRoundPlaces)
	}
	return HourBucket{
		Day:          toHours(b.Day),
		Night:        toHours(b.Night),
		DayOT:        toHours(b.DayOT),
		NightOT:      toHours(b.NightOT),
		BonusDay:     toHours(b.BonusDay),
		BonusNight:   toHours(b.BonusNight),
		BonusDayOT:   toHours(b.BonusDayOT),
		BonusNightOT: toHours(b.BonusNightOT),
	}
}

// HourBucket holds the eight classification categories in hours. The same
// shape is reused for dollars in the Dollars table.
type HourBucket struct {
	Day          decimal.Decimal
	Night        decimal.Decimal
	DayOT        decimal.Decimal
	NightOT      decimal.Decimal
	BonusDay     decimal.Decimal
	BonusNight   decimal.Decimal
	BonusDayOT   decimal.Decimal
	BonusNightOT decimal.Decimal
}

// Add returns the element-wise sum of two buckets.
func (b HourBucket) Add(o HourBucket) HourBucket {
	return HourBucket{
		Day:          b.Day.Add(o.Day),
		Night:        b.Night.Add(o.Night),
		DayOT:        b.DayOT.Add(o.DayOT),
		NightOT:      b.NightOT.Add(o.NightOT),
		BonusDay:     b.BonusDay.Add(o.BonusDay),
		BonusNight:   b.BonusNight.Add(o.BonusNight),
		BonusDayOT:   b.BonusDayOT.Add(o.BonusDayOT),
		BonusNightOT: b.BonusNightOT.Add(o.BonusNightOT),
	}
}

// Round returns the bucket with every category rounded to the given places.
func (b HourBucket) Round(places int32) HourBucket {
	return HourBucket{
		Day:          b.Day.Round(places),
		Night:        b.Night.Round(places),
		DayOT:        b.DayOT.Round(places),
		NightOT:      b.NightOT.Round(places),
		BonusDay:     b.BonusDay.Round(places),
		BonusNight:   b.BonusNight.Round(places),
		BonusDayOT:   b.BonusDayOT.Round(places),
		BonusNightOT: b.BonusNightOT.Round(places),
	}
}

// Regular returns the sum of the four non-overtime categories.
func (b HourBucket) Regular() decimal.Decimal {
	return b.Day.Add(b.Night).Add(b.BonusDay).Add(b.BonusNight)
}

// Overtime returns the sum of the four overtime categories.
func (b HourBucket) Overtime() decimal.Decimal {
	return b.DayOT.Add(b.NightOT).Add(b.BonusDayOT).Add(b.BonusNightOT)
}

// =============================================================================
// AGGREGATION OUTPUT
// =============================================================================

// EmployeeHours is the aggregate bucket-set for one employee: per-shift hour
// buckets (already rounded to 8 places) summed across every week of the pay
// period. Final 2-place rounding happens when the Row is built.
type EmployeeHours struct {
	FirstName string
	LastName  string
	Buckets   HourBucket
}

// Key returns the canonical employee key.
func (e EmployeeHours) Key() string {
	return EmployeeKey(e.FirstName, e.LastName)
}

// Row is one line of an output table. For the Hours table the bucket values
// are hours and the Diff columns compare against the employee's reported
// totals; for the Dollars table the bucket values are dollars and the Diff
// columns are unused.
type Row struct {
	FirstName string
	LastName  string

	Buckets HourBucket

	TotalRegular decimal.Decimal
	TotalOT      decimal.Decimal
	Total        decimal.Decimal

	DiffRegular decimal.Decimal
	DiffOT      decimal.Decimal
	DiffTotal   decimal.Decimal
}

// Key returns the canonical employee key for the row.
func (r Row) Key() string {
	return EmployeeKey(r.FirstName, r.LastName)
}
