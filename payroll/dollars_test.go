package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goalhome/payroll-engine/payroll"
)

func TestDollarConverter_RatesSurchargeAndMultiplier(t *testing.T) {
	// GIVEN: day rate $10, night rate $12, $2 bonus surcharge
	converter := payroll.NewDollarConverter(payroll.DefaultBonusSurcharge)
	rate := payroll.PayRate{FirstName: "Edith", LastName: "Mora", DayRate: d("10"), NightRate: d("12")}

	hours := payroll.EmployeeHours{
		FirstName: "EDITH",
		LastName:  "MORA",
		Buckets: payroll.HourBucket{
			Day:          d("10"),
			Night:        d("5"),
			BonusDay:     d("2"),
			BonusNight:   d("1"),
			DayOT:        d("2"),
			NightOT:      d("1"),
			BonusDayOT:   d("1"),
			BonusNightOT: d("1"),
		},
	}

	row := converter.Convert(hours, rate)

	// Non-overtime: hours x rate, surcharge added to bonus rates
	requireDecimal(t, "100", row.Buckets.Day, "day: 10h x $10")
	requireDecimal(t, "60", row.Buckets.Night, "night: 5h x $12")
	requireDecimal(t, "24", row.Buckets.BonusDay, "bonus day: 2h x $12")
	requireDecimal(t, "14", row.Buckets.BonusNight, "bonus night: 1h x $14")

	// Overtime: 1.5x multiplier applied after the surcharge
	requireDecimal(t, "30", row.Buckets.DayOT, "day OT: 2h x $10 x 1.5")
	requireDecimal(t, "18", row.Buckets.NightOT, "night OT: 1h x $12 x 1.5")
	requireDecimal(t, "18", row.Buckets.BonusDayOT, "bonus day OT: 1h x $12 x 1.5")
	requireDecimal(t, "21", row.Buckets.BonusNightOT, "bonus night OT: 1h x $14 x 1.5")

	requireDecimal(t, "198", row.TotalRegular, "total regular dollars")
	requireDecimal(t, "87", row.TotalOT, "total overtime dollars")
	requireDecimal(t, "285", row.Total, "total dollars")

	// The dollar row keeps the pay-rate record's spelling of the name.
	require.Equal(t, "Edith", row.FirstName)
	require.Equal(t, "Mora", row.LastName)
}

func TestDollarConverter_RoundsToCents(t *testing.T) {
	converter := payroll.NewDollarConverter(d("2"))
	rate := payroll.PayRate{FirstName: "A", LastName: "B", DayRate: d("10.55"), NightRate: d("10.55")}

	hours := payroll.EmployeeHours{
		FirstName: "A", LastName: "B",
		Buckets: payroll.HourBucket{Day: d("0.83333333")},
	}

	row := converter.Convert(hours, rate)

	// 0.83333333 x 10.55 = 8.7916666... -> $8.79
	requireDecimal(t, "8.79", row.Buckets.Day, "day dollars")
	requireDecimal(t, "8.79", row.TotalRegular, "total regular")
}
