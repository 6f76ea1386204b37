package laytime_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seafix/laytime-engine/laytime"
)

// fixedCalendar marks a fixed set of days as holidays.
type fixedCalendar map[string]bool

func (c fixedCalendar) IsHoliday(day time.Time) bool {
	return c[day.Format("2006-01-02")]
}

// =============================================================================
// DAY-SPLITTING
// =============================================================================

func TestResolve_MidnightSplit_WeekendBoundary(t *testing.T) {
	// GIVEN: A WAITING event Saturday 22:00 -> Sunday 02:00 under SHEX
	// WHEN: Resolving
	// THEN: the event splits at midnight; Saturday counts, Sunday does not

	saturday22 := time.Date(2025, time.March, 8, 22, 0, 0, 0, time.UTC)
	terms := testTerms(24, laytime.SHEX, laytime.UU)
	terms.Commencement = saturday22

	intervals, warnings := laytime.Resolve(
		[]laytime.SofEvent{event("span", saturday22, 4, laytime.KindWaiting, 100)},
		terms, laytime.EmptyCalendar{},
	)

	require.Empty(t, warnings)
	require.Len(t, intervals, 2)

	sat, sun := intervals[0], intervals[1]
	assert.Equal(t, saturday22, sat.From)
	assert.Equal(t, saturday22.Add(2*time.Hour), sat.To, "split exactly at midnight")
	assert.False(t, sat.CalendarExcluded, "Saturday counts under SHEX")
	assert.True(t, sat.Fraction.Equal(decimal.NewFromInt(1)))

	assert.True(t, sun.CalendarExcluded, "Sunday excluded under SHEX")
	assert.True(t, sun.Fraction.IsZero(), "waiting on an excluded day never counts, even under UU")
}

func TestResolve_MultiDayEvent_SplitPerCalendarDay(t *testing.T) {
	// GIVEN: A 72h event starting mid-day Friday under SSHEX
	// WHEN: Resolving
	// THEN: one sub-interval per calendar day, exclusion evaluated per day

	friday12 := time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)
	terms := testTerms(100, laytime.SSHEX, laytime.EIU)
	terms.Commencement = friday12

	intervals, _ := laytime.Resolve(
		[]laytime.SofEvent{event("long", friday12, 72, laytime.KindWorking, 100)},
		terms, laytime.EmptyCalendar{},
	)

	// Fri 12:00-24:00, Sat, Sun, Mon 00:00-12:00
	require.Len(t, intervals, 4)
	assert.False(t, intervals[0].CalendarExcluded, "Friday")
	assert.True(t, intervals[1].CalendarExcluded, "Saturday under SSHEX")
	assert.True(t, intervals[2].CalendarExcluded, "Sunday under SSHEX")
	assert.False(t, intervals[3].CalendarExcluded, "Monday")
}

// =============================================================================
// EXCEPTION RULES
// =============================================================================

func TestResolve_HolidayCalendar_ExcludesConfiguredDays(t *testing.T) {
	// GIVEN: A working Tuesday marked as a port holiday, EIU
	// WHEN: Resolving
	// THEN: the day is excluded and contributes nothing

	tuesday := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)
	terms := testTerms(24, laytime.SHINC, laytime.EIU)
	terms.Commencement = tuesday
	holidays := fixedCalendar{"2025-03-04": true}

	intervals, _ := laytime.Resolve(
		[]laytime.SofEvent{event("tue", tuesday, 24, laytime.KindWorking, 100)},
		terms, holidays,
	)

	require.Len(t, intervals, 1)
	assert.True(t, intervals[0].CalendarExcluded)
	assert.True(t, intervals[0].Fraction.IsZero())
}

func TestResolve_HolidayKindEvent_NeverCounts(t *testing.T) {
	// GIVEN: An event the SOF itself tags as a holiday period, on an
	//        ordinary included weekday at 100%
	// WHEN: Resolving
	// THEN: it contributes nothing regardless of terms

	terms := testTerms(24, laytime.SHINC, laytime.UU)
	intervals, _ := laytime.Resolve(
		[]laytime.SofEvent{event("hol", commencement, 24, laytime.KindHoliday, 100)},
		terms, laytime.EmptyCalendar{},
	)

	require.Len(t, intervals, 1)
	assert.True(t, intervals[0].Fraction.IsZero())
}

func TestResolve_UnknownKind_TreatedAsWorkingWithWarning(t *testing.T) {
	// GIVEN: An event kind the resolver does not model (future CP clause)
	// WHEN: Resolving
	// THEN: it counts as working and carries an unresolved-kind warning

	terms := testTerms(24, laytime.SHINC, laytime.UU)
	intervals, warnings := laytime.Resolve(
		[]laytime.SofEvent{event("odd", commencement, 10, laytime.EventKind("fumigation"), 100)},
		terms, laytime.EmptyCalendar{},
	)

	require.Len(t, intervals, 1)
	assert.True(t, intervals[0].Fraction.Equal(decimal.NewFromInt(1)), "unknown kind counts as working")

	require.Len(t, warnings, 1)
	assert.Equal(t, laytime.WarnUnresolvedKind, warnings[0].Code)
	assert.Equal(t, "odd", warnings[0].EventID)
}

func TestResolve_ExcludedDay_NonWorkingKinds_ZeroUnderUU(t *testing.T) {
	// GIVEN: Each non-working kind on an excluded Sunday under UU
	// WHEN: Resolving
	// THEN: "unless used" does not waive the exclusion for idle periods

	sunday := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	terms := testTerms(24, laytime.SHEX, laytime.UU)
	terms.Commencement = sunday

	for _, kind := range []laytime.EventKind{
		laytime.KindWeather, laytime.KindWaiting, laytime.KindStrike, laytime.KindBreakdown,
	} {
		intervals, _ := laytime.Resolve(
			[]laytime.SofEvent{event("e", sunday, 6, kind, 100)},
			terms, laytime.EmptyCalendar{},
		)
		require.Len(t, intervals, 1)
		assert.True(t, intervals[0].Fraction.IsZero(), "kind %s should not count on excluded day", kind)
	}
}

func TestResolve_PartialPercent_AppliedOnIncludedDays(t *testing.T) {
	// GIVEN: A "weather 50% to count" clause on an ordinary weekday
	// WHEN: Resolving
	// THEN: the fraction is exactly 0.5

	terms := testTerms(24, laytime.SHINC, laytime.UU)
	intervals, _ := laytime.Resolve(
		[]laytime.SofEvent{event("w", commencement, 12, laytime.KindWeather, 50)},
		terms, laytime.EmptyCalendar{},
	)

	require.Len(t, intervals, 1)
	assert.True(t, intervals[0].Fraction.Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, intervals[0].CountedHours().Equal(decimal.NewFromInt(6)))
}

// =============================================================================
// WEEKEND TERM MATRIX
// =============================================================================

func TestWeekendTerm_ExclusionMatrix(t *testing.T) {
	saturday := time.Date(2025, time.March, 8, 10, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, time.March, 9, 10, 0, 0, 0, time.UTC)
	monday := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		term     laytime.WeekendTerm
		saturday bool
		sunday   bool
	}{
		{laytime.SHINC, false, false},
		{laytime.SHEX, false, true},
		{laytime.SSHINC, false, false},
		{laytime.SSHEX, true, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.term), func(t *testing.T) {
			assert.Equal(t, tc.saturday, laytime.ExcludedDay(saturday, tc.term, laytime.EmptyCalendar{}))
			assert.Equal(t, tc.sunday, laytime.ExcludedDay(sunday, tc.term, laytime.EmptyCalendar{}))
			assert.False(t, laytime.ExcludedDay(monday, tc.term, laytime.EmptyCalendar{}), "weekdays never excluded calendar-wise")
		})
	}
}

func TestExcludedDay_NilCalendar_NoHolidays(t *testing.T) {
	monday := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	assert.False(t, laytime.ExcludedDay(monday, laytime.SHINC, nil))
}
