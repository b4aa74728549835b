package payroll

import (
	"strings"
	"time"
)

// =============================================================================
// DAY / NIGHT CLASSIFICATION
// =============================================================================

// Day runs from 06:00 (inclusive) to 22:00 (exclusive) in local wall-clock
// time. Everything else is night.
const (
	dayStartHour = 6
	dayEndHour   = 22
)

// IsDay reports whether the instant falls in the day window. The instant is
// converted into loc before the hour is read: classification is
// timezone-sensitive and must never depend on the ambient process zone.
func IsDay(t time.Time, loc *time.Location) bool {
	h := t.In(loc).Hour()
	return h >= dayStartHour && h < dayEndHour
}

// IsNight is the exact logical complement of IsDay.
func IsNight(t time.Time, loc *time.Location) bool {
	return !IsDay(t, loc)
}

// =============================================================================
// BONUS SCHEDULES - Maintained allow-list of premium locations
// =============================================================================

// ScheduleSet is an exact-match allow-list of schedule/location labels that
// earn the bonus rate. Membership is checked after trimming and lowercasing;
// superstrings like "Paddington Extra" never match.
type ScheduleSet struct {
	names map[string]struct{}
}

// NewScheduleSet builds a set from the given labels.
func NewScheduleSet(labels ...string) ScheduleSet {
	names := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		names[l] = struct{}{}
	}
	return ScheduleSet{names: names}
}

// DefaultBonusSchedules returns the current bonus-eligible locations.
// Add "Padd Downstairs" or "Padd B Grave" back if they should earn the
// bonus again.
func DefaultBonusSchedules() ScheduleSet {
	return NewScheduleSet("Paddington", "Padd Upstairs", "Padd Grave")
}

// Contains reports whether the label is bonus-eligible.
func (s ScheduleSet) Contains(label string) bool {
	_, ok := s.names[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

// Labels returns the normalized members, for logging and configuration echo.
func (s ScheduleSet) Labels() []string {
	labels := make([]string, 0, len(s.names))
	for name := range s.names {
		labels = append(labels, name)
	}
	return labels
}
