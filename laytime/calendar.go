/*
calendar.go - Calendar facts needed to classify exception periods

PURPOSE:
  Pure, total calendar resolution. The engine needs exactly two facts about
  any instant: does the weekend term exclude this weekday, and is the day a
  holiday at the port. Weekday exclusion is a pure function of the term;
  holiday membership comes from a HolidayCalendar supplied by the caller
  (external configuration data, out of scope to source here).

  An empty or nil calendar degrades gracefully to "no holidays".

SEE ALSO:
  - calendar package: port/jurisdiction HolidayCalendar implementations
  - resolver.go: calls ExcludedDay per day-split sub-interval
*/
package laytime

import "time"

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// HolidayCalendar answers holiday membership per calendar day. Implementations
// live outside the engine (port lists, national calendars); the engine only
// consumes the predicate.
type HolidayCalendar interface {
	IsHoliday(day time.Time) bool
}

// EmptyCalendar treats every day as a non-holiday.
type EmptyCalendar struct{}

func (EmptyCalendar) IsHoliday(time.Time) bool { return false }

// =============================================================================
// EXCLUSION RESOLUTION
// =============================================================================

// ExcludedDay reports whether the calendar day containing t is excluded from
// laytime counting: either the weekend term excludes its weekday, or the
// holiday calendar marks it. A nil calendar means no holidays.
func ExcludedDay(t time.Time, term WeekendTerm, cal HolidayCalendar) bool {
	if term.ExcludesWeekday(t.Weekday()) {
		return true
	}
	return cal != nil && cal.IsHoliday(t)
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// nextMidnight returns the first midnight strictly after t.
func nextMidnight(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1)
}
