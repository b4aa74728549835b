package payroll

import "time"

// =============================================================================
// TIME RANGE EXPANDER - Half-open per-minute expansion
// =============================================================================

// ExpandMinutes returns every whole-minute instant in [start, end). Both
// bounds are floored to the minute first, so the result has exactly
// floor(end) - floor(start) elements (in minutes), or none when that
// difference is not positive.
//
// The expansion is eager and pure: a pay period is bounded, so a shift is at
// most a few thousand elements.
func ExpandMinutes(start, end time.Time) []time.Time {
	start = start.Truncate(time.Minute)
	end = end.Truncate(time.Minute)

	n := int(end.Sub(start) / time.Minute)
	if n <= 0 {
		return nil
	}

	minutes := make([]time.Time, n)
	for i := range minutes {
		minutes[i] = start.Add(time.Duration(i) * time.Minute)
	}
	return minutes
}

// MinutesBetween returns the length of the expansion without materializing it.
func MinutesBetween(start, end time.Time) int {
	n := int(end.Truncate(time.Minute).Sub(start.Truncate(time.Minute)) / time.Minute)
	if n < 0 {
		return 0
	}
	return n
}

// =============================================================================
// WEEK KEYER - Locally-adjusted ISO week numbering
// =============================================================================

// WeekOf maps an instant to the engine's week-of-year number: the ISO-8601
// week, incremented by one when the instant falls on a Sunday, with a result
// of 53 folded into week 1 of the following period.
//
// This numbering is only used for grouping minutes into overtime weeks. It is
// NOT compatible with any external ISO-week authority and callers must not
// treat it as one.
func WeekOf(t time.Time) int {
	_, week := t.ISOWeek()
	if t.Weekday() == time.Sunday {
		week++
	}
	if week == 53 {
		return 1
	}
	return week
}
