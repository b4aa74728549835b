/*
aggregate.go - Shift -> week -> employee roll-up

PURPOSE:
  The aggregation engine. Expands every shift into per-minute instants,
  classifies each minute into one of eight buckets (day/night x
  regular/overtime x bonus/non-bonus) and rolls the counts up through
  shift -> week -> employee, converting minutes to hours along the way.

OVERTIME RULE:
  A running minute counter is kept per (employee, week). A minute is
  overtime when the counter strictly exceeds 2400 (40h x 60) AFTER that
  minute has been counted: the 2400th minute of a week is still regular,
  the 2401st is overtime. Because classification reads the counter in
  processing order, input order decides WHICH minutes land in the
  overtime buckets - it never changes how many.

ROUNDING:
  Two-stage, and deliberate:
  1. Each shift's minute buckets are divided by 60 and rounded to
     8 places before any summing.
  2. The week and employee sums stay at that precision; the final
     2-place rounding happens only when the output Row is built.

STATE:
  The accumulator is created inside Aggregate and dies with it. Nothing
  is kept between invocations.

SEE ALSO:
  - timerange.go: ExpandMinutes, WeekOf
  - classify.go:  IsDay, ScheduleSet
  - engine.go:    Run orchestration building Rows from EmployeeHours
*/
package payroll

import (
	"sort"
	"time"
)

// overtimeThresholdMinutes is the weekly regular-time budget: 40 hours.
const overtimeThresholdMinutes = 40 * 60

// Aggregator classifies and rolls up shifts. Zero value is not usable;
// construct with NewAggregator so the location and bonus set are explicit.
type Aggregator struct {
	location *time.Location
	bonus    ScheduleSet
}

// NewAggregator builds an aggregator for the given wall-clock location and
// bonus-schedule allow-list.
func NewAggregator(loc *time.Location, bonus ScheduleSet) *Aggregator {
	return &Aggregator{location: loc, bonus: bonus}
}

// accumulator is the per-run mutable state of one Aggregate call.
type accumulator struct {
	// Running minute count per employee per week. Drives the overtime
	// threshold, nothing else.
	counts map[string]map[int]int

	// Classified minutes per employee per week per shift occurrence.
	minutes map[string]map[int]map[int]*MinuteBucket

	// Display names and first-seen order of employees.
	first map[string]string
	last  map[string]string
	order []string
}

func newAccumulator() *accumulator {
	return &accumulator{
		counts:  make(map[string]map[int]int),
		minutes: make(map[string]map[int]map[int]*MinuteBucket),
		first:   make(map[string]string),
		last:    make(map[string]string),
	}
}

func (a *accumulator) see(s Shift) string {
	key := s.Key()
	if _, ok := a.first[key]; !ok {
		a.first[key] = s.FirstName
		a.last[key] = s.LastName
		a.order = append(a.order, key)
	}
	return key
}

func (a *accumulator) bucket(key string, week, shiftIndex int) *MinuteBucket {
	weeks, ok := a.minutes[key]
	if !ok {
		weeks = make(map[int]map[int]*MinuteBucket)
		a.minutes[key] = weeks
	}
	shifts, ok := weeks[week]
	if !ok {
		shifts = make(map[int]*MinuteBucket)
		weeks[week] = shifts
	}
	b, ok := shifts[shiftIndex]
	if !ok {
		b = &MinuteBucket{}
		shifts[shiftIndex] = b
	}
	return b
}

// tick increments the employee/week running counter and reports whether the
// counted minute is overtime. Strict > on the post-increment value: the
// 2400th minute is regular, the 2401st is overtime.
func (a *accumulator) tick(key string, week int) bool {
	weeks, ok := a.counts[key]
	if !ok {
		weeks = make(map[int]int)
		a.counts[key] = weeks
	}
	weeks[week]++
	return weeks[week] > overtimeThresholdMinutes
}

// Aggregate consumes the full shift list and returns one aggregate bucket-set
// per employee, sorted by last then first name.
//
// A shift whose interval is inverted (start after end) expands to zero
// minutes and contributes nothing; the mismatch surfaces later as a
// reconciliation diff rather than an error.
func (ag *Aggregator) Aggregate(shifts []Shift) []EmployeeHours {
	acc := newAccumulator()

	for shiftIndex, shift := range shifts {
		key := acc.see(shift)

		// Bonus eligibility is a property of the shift, evaluated once and
		// applied to every minute of its expansion.
		bonus := ag.bonus.Contains(shift.Schedule)

		for _, minute := range ExpandMinutes(shift.Start, shift.End) {
			week := WeekOf(minute.In(ag.location))
			overtime := acc.tick(key, week)
			day := IsDay(minute, ag.location)

			bucket := acc.bucket(key, week, shiftIndex)
			switch {
			case bonus && day && overtime:
				bucket.BonusDayOT++
			case bonus && day:
				bucket.BonusDay++
			case bonus && overtime:
				bucket.BonusNightOT++
			case bonus:
				bucket.BonusNight++
			case day && overtime:
				bucket.DayOT++
			case day:
				bucket.Day++
			case overtime:
				bucket.NightOT++
			default:
				bucket.Night++
			}
		}
	}

	return acc.summarize()
}

// summarize converts minute buckets to hours per shift occurrence, then sums
// shift -> week -> employee.
func (a *accumulator) summarize() []EmployeeHours {
	out := make([]EmployeeHours, 0, len(a.order))

	for _, key := range a.order {
		var employee HourBucket
		for _, shifts := range a.minutes[key] {
			var week HourBucket
			for _, b := range shifts {
				week = week.Add(b.Hours())
			}
			employee = employee.Add(week)
		}
		out = append(out, EmployeeHours{
			FirstName: a.first[key],
			LastName:  a.last[key],
			Buckets:   employee,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out
}
