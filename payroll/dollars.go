/*
dollars.go - Hour-to-dollar conversion

PURPOSE:
  Multiplies an employee's aggregated hour buckets by their pay-rate record
  to produce the parallel Dollars table.

RULES:
  - Day buckets use the day rate, night buckets the night rate.
  - Bonus buckets add a flat per-hour surcharge (default $2) to the rate
    BEFORE any multiplier.
  - Overtime buckets multiply the (possibly surcharged) rate by 1.5.
  - Employees without a matched pay-rate record get no dollar row at all,
    not a zero row.

The conversion reads the unrounded aggregate buckets, not the 2-place
display values, so the dollar totals don't inherit display rounding.
*/
package payroll

import "github.com/shopspring/decimal"

// DefaultBonusSurcharge is the flat per-hour premium for bonus schedules.
var DefaultBonusSurcharge = decimal.NewFromInt(2)

var overtimeMultiplier = decimal.RequireFromString("1.5")

// DollarConverter turns EmployeeHours into a Dollars table Row.
type DollarConverter struct {
	Surcharge decimal.Decimal
}

// NewDollarConverter builds a converter with the given bonus surcharge.
func NewDollarConverter(surcharge decimal.Decimal) *DollarConverter {
	return &DollarConverter{Surcharge: surcharge}
}

// Convert produces the dollar Row for one employee. The caller is
// responsible for the skip rule: only call Convert with a matched rate.
func (c *DollarConverter) Convert(hours EmployeeHours, rate PayRate) Row {
	dayRate := rate.DayRate
	nightRate := rate.NightRate
	bonusDayRate := dayRate.Add(c.Surcharge)
	bonusNightRate := nightRate.Add(c.Surcharge)

	dollars := HourBucket{
		Day:          hours.Buckets.Day.Mul(dayRate),
		Night:        hours.Buckets.Night.Mul(nightRate),
		BonusDay:     hours.Buckets.BonusDay.Mul(bonusDayRate),
		BonusNight:   hours.Buckets.BonusNight.Mul(bonusNightRate),
		DayOT:        hours.Buckets.DayOT.Mul(dayRate).Mul(overtimeMultiplier),
		NightOT:      hours.Buckets.NightOT.Mul(nightRate).Mul(overtimeMultiplier),
		BonusDayOT:   hours.Buckets.BonusDayOT.Mul(bonusDayRate).Mul(overtimeMultiplier),
		BonusNightOT: hours.Buckets.BonusNightOT.Mul(bonusNightRate).Mul(overtimeMultiplier),
	}

	regular := dollars.Regular()
	overtime := dollars.Overtime()

	return Row{
		// The dollar row carries the pay-rate record's spelling of the name,
		// which may differ in case from the timesheet's.
		FirstName: rate.FirstName,
		LastName:  rate.LastName,

		Buckets: dollars.Round(totalRoundPlaces),

		TotalRegular: regular.Round(totalRoundPlaces),
		TotalOT:      overtime.Round(totalRoundPlaces),
		Total:        regular.Add(overtime).Round(totalRoundPlaces),
	}
}
