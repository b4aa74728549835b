package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/goalhome/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func reported(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d(s), Valid: true}
}

func shift(first, last string, start, end time.Time, schedule string) payroll.Shift {
	return payroll.Shift{
		FirstName: first,
		LastName:  last,
		Start:     start,
		End:       end,
		Schedule:  schedule,
	}
}

func aggregateUTC(t *testing.T, shifts ...payroll.Shift) []payroll.EmployeeHours {
	t.Helper()
	return payroll.NewAggregator(time.UTC, payroll.DefaultBonusSchedules()).Aggregate(shifts)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal, label string) {
	t.Helper()
	require.True(t, d(want).Equal(got), "%s: want %s, got %s", label, want, got)
}

// =============================================================================
// CLASSIFICATION ROLL-UP
// =============================================================================

func TestAggregate_SplitsDayAndNightMinutes(t *testing.T) {
	// GIVEN: a 21:00 -> 23:00 shift straddling the 22:00 day/night boundary
	employees := aggregateUTC(t,
		shift("Rylee", "Hart", at(2024, time.March, 4, 21, 0, 0), at(2024, time.March, 4, 23, 0, 0), "South Jordan"),
	)

	// THEN: one hour of day, one hour of night, nothing else
	require.Len(t, employees, 1)
	b := employees[0].Buckets
	requireDecimal(t, "1", b.Day, "day")
	requireDecimal(t, "1", b.Night, "night")
	requireDecimal(t, "0", b.DayOT.Add(b.NightOT).Add(b.BonusDay).Add(b.BonusNight).Add(b.BonusDayOT).Add(b.BonusNightOT), "all other buckets")
}

func TestAggregate_BonusScheduleAppliesToWholeShift(t *testing.T) {
	// GIVEN: a graveyard shift at a bonus location, crossing midnight
	employees := aggregateUTC(t,
		shift("Edith", "Mora", at(2024, time.March, 4, 22, 0, 0), at(2024, time.March, 5, 2, 0, 0), "Padd Grave"),
	)

	// THEN: all four hours land in the bonus night bucket
	require.Len(t, employees, 1)
	b := employees[0].Buckets
	requireDecimal(t, "4", b.BonusNight, "bonus night")
	requireDecimal(t, "0", b.Night, "plain night")
}

func TestAggregate_EightPlaceShiftRounding(t *testing.T) {
	// 50 minutes of day = 0.83333333 hours at the shift level.
	employees := aggregateUTC(t,
		shift("Fanny", "Lund", at(2024, time.March, 4, 10, 0, 0), at(2024, time.March, 4, 10, 50, 0), "South Jordan"),
	)

	require.Len(t, employees, 1)
	requireDecimal(t, "0.83333333", employees[0].Buckets.Day, "day hours")
}

func TestAggregate_InvertedShiftContributesNothing(t *testing.T) {
	employees := aggregateUTC(t,
		shift("Corrina", "Bell", at(2024, time.March, 4, 12, 0, 0), at(2024, time.March, 4, 9, 0, 0), "South Jordan"),
	)

	// The employee still appears, with zero hours: the gap shows up later
	// as a reconciliation diff instead of an error.
	require.Len(t, employees, 1)
	requireDecimal(t, "0", employees[0].Buckets.Regular(), "regular hours")
	requireDecimal(t, "0", employees[0].Buckets.Overtime(), "overtime hours")
}

// =============================================================================
// OVERTIME THRESHOLD
// =============================================================================

func TestAggregate_FortyHoursExactlyIsAllRegular(t *testing.T) {
	// GIVEN: exactly 2400 minutes in one week (Mon 00:00 -> Tue 16:00)
	employees := aggregateUTC(t,
		shift("Janell", "Reyes", at(2024, time.January, 1, 0, 0, 0), at(2024, time.January, 2, 16, 0, 0), "South Jordan"),
	)

	// THEN: the 2400th minute is still regular
	require.Len(t, employees, 1)
	b := employees[0].Buckets
	requireDecimal(t, "40", b.Regular(), "regular")
	requireDecimal(t, "0", b.Overtime(), "overtime")
}

func TestAggregate_MinuteBeyondThresholdIsOvertime(t *testing.T) {
	// GIVEN: 2400 regular minutes, then a one-minute shift in the same week
	employees := aggregateUTC(t,
		shift("Janell", "Reyes", at(2024, time.January, 1, 0, 0, 0), at(2024, time.January, 2, 16, 0, 0), "South Jordan"),
		shift("Janell", "Reyes", at(2024, time.January, 2, 16, 0, 0), at(2024, time.January, 2, 16, 1, 0), "South Jordan"),
	)

	// THEN: the 2401st minute lands in the day-overtime bucket
	require.Len(t, employees, 1)
	b := employees[0].Buckets
	requireDecimal(t, "40", b.Regular(), "regular")
	requireDecimal(t, "0.01666667", b.DayOT, "day overtime")
}

func TestAggregate_CounterIsPerWeek(t *testing.T) {
	// GIVEN: 39h in one week and 39h the next
	employees := aggregateUTC(t,
		shift("Summer", "Kerr", at(2024, time.January, 1, 6, 0, 0), at(2024, time.January, 2, 21, 0, 0), "South Jordan"),
		shift("Summer", "Kerr", at(2024, time.January, 8, 6, 0, 0), at(2024, time.January, 9, 21, 0, 0), "South Jordan"),
	)

	// THEN: neither week crosses the threshold
	require.Len(t, employees, 1)
	requireDecimal(t, "78", employees[0].Buckets.Regular(), "regular")
	requireDecimal(t, "0", employees[0].Buckets.Overtime(), "overtime")
}

func TestAggregate_CounterIsPerEmployee(t *testing.T) {
	// Two employees working 24h each in the same week stay regular.
	employees := aggregateUTC(t,
		shift("Ada", "North", at(2024, time.January, 1, 0, 0, 0), at(2024, time.January, 2, 0, 0, 0), "South Jordan"),
		shift("Ben", "South", at(2024, time.January, 1, 0, 0, 0), at(2024, time.January, 2, 0, 0, 0), "South Jordan"),
	)

	require.Len(t, employees, 2)
	for _, emp := range employees {
		requireDecimal(t, "0", emp.Buckets.Overtime(), emp.Key()+" overtime")
	}
}

// =============================================================================
// OUTPUT SHAPE
// =============================================================================

func TestAggregate_SortsByLastThenFirstName(t *testing.T) {
	employees := aggregateUTC(t,
		shift("Zoe", "Young", at(2024, time.March, 4, 10, 0, 0), at(2024, time.March, 4, 11, 0, 0), "South Jordan"),
		shift("Amy", "Abbott", at(2024, time.March, 4, 10, 0, 0), at(2024, time.March, 4, 11, 0, 0), "South Jordan"),
		shift("Bea", "Abbott", at(2024, time.March, 4, 10, 0, 0), at(2024, time.March, 4, 11, 0, 0), "South Jordan"),
	)

	require.Len(t, employees, 3)
	require.Equal(t, "AMY ABBOTT", employees[0].Key())
	require.Equal(t, "BEA ABBOTT", employees[1].Key())
	require.Equal(t, "ZOE YOUNG", employees[2].Key())
}

func TestAggregate_MergesNameCaseVariants(t *testing.T) {
	// The same person spelled differently across rows is one employee.
	employees := aggregateUTC(t,
		shift("Rylee", "Hart", at(2024, time.March, 4, 10, 0, 0), at(2024, time.March, 4, 11, 0, 0), "South Jordan"),
		shift("RYLEE", "HART", at(2024, time.March, 4, 12, 0, 0), at(2024, time.March, 4, 13, 0, 0), "South Jordan"),
	)

	require.Len(t, employees, 1)
	requireDecimal(t, "2", employees[0].Buckets.Day, "day hours")
}
