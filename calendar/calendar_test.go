package calendar_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seafix/laytime-engine/calendar"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPortCalendar_MembershipAndOrder(t *testing.T) {
	c := calendar.NewPortCalendar("SGSIN", "Singapore", []time.Time{
		day("2025-01-29"),
		day("2025-01-01"),
	})

	assert.True(t, c.IsHoliday(day("2025-01-01")))
	assert.True(t, c.IsHoliday(day("2025-01-29")))
	assert.False(t, c.IsHoliday(day("2025-01-02")))

	// Membership ignores the time of day.
	assert.True(t, c.IsHoliday(day("2025-01-01").Add(14*time.Hour)))

	dates := c.Dates()
	require.Len(t, dates, 2)
	assert.True(t, dates[0].Before(dates[1]), "dates sorted chronologically")
}

func TestParse_ExplicitHolidayList(t *testing.T) {
	// GIVEN: A config with an explicit per-port date list
	// WHEN: Parsing
	// THEN: the set resolves those dates for that port only

	cfg := `
ports:
  - port: SGSIN
    name: Singapore
    holidays:
      - 2025-01-01
      - 2025-01-29
`
	set, err := calendar.Parse(strings.NewReader(cfg))
	require.NoError(t, err)

	assert.True(t, set.ForPort("SGSIN").IsHoliday(day("2025-01-29")))
	assert.False(t, set.ForPort("SGSIN").IsHoliday(day("2025-02-01")))
	assert.Equal(t, []string{"SGSIN"}, set.Ports())
}

func TestParse_CountryFallback(t *testing.T) {
	// GIVEN: A port configured only with a country code
	// WHEN: Parsing
	// THEN: national public holidays apply (July 4 in the US)

	cfg := `
ports:
  - port: USHOU
    name: Houston
    country: US
`
	set, err := calendar.Parse(strings.NewReader(cfg))
	require.NoError(t, err)

	assert.True(t, set.ForPort("USHOU").IsHoliday(day("2025-07-04")))
	assert.False(t, set.ForPort("USHOU").IsHoliday(day("2025-07-08")))
}

func TestParse_ExplicitDatesUnionedWithCountry(t *testing.T) {
	cfg := `
ports:
  - port: USHOU
    country: US
    holidays:
      - 2025-03-05
`
	set, err := calendar.Parse(strings.NewReader(cfg))
	require.NoError(t, err)

	c := set.ForPort("USHOU")
	assert.True(t, c.IsHoliday(day("2025-03-05")), "explicit local date")
	assert.True(t, c.IsHoliday(day("2025-12-25")), "national holiday")
}

func TestParse_BadDateRejected(t *testing.T) {
	cfg := `
ports:
  - port: SGSIN
    holidays:
      - not-a-date
`
	_, err := calendar.Parse(strings.NewReader(cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SGSIN")
}

func TestParse_UnknownCountryRejected(t *testing.T) {
	cfg := `
ports:
  - port: XXZZZ
    country: ZZ
`
	_, err := calendar.Parse(strings.NewReader(cfg))
	require.Error(t, err)
}

func TestSet_UnknownPort_EmptyCalendar(t *testing.T) {
	set := calendar.NewSet()
	assert.False(t, set.ForPort("NOPE").IsHoliday(day("2025-01-01")))
}

func TestJurisdiction_ObservedHolidaysCount(t *testing.T) {
	// GIVEN: The US calendar and a July 4 falling on a Saturday (2026)
	// WHEN: Checking the observed Friday
	// THEN: the observed date is treated as a holiday too

	j, err := calendar.Jurisdiction("us")
	require.NoError(t, err)

	assert.True(t, j.IsHoliday(day("2026-07-04")), "actual date")
	assert.True(t, j.IsHoliday(day("2026-07-03")), "observed Friday")
}
