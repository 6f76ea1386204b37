/*
jurisdiction.go - National public-holiday calendars

PURPOSE:
  Fallback for ports with no bespoke holiday circular: national public
  holidays from rickar/cal. Observed dates count as well (a holiday falling
  on a Saturday is commonly observed Friday or Monday at the port).
*/
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/us"

	"github.com/seafix/laytime-engine/laytime"
)

// JurisdictionCalendar answers holiday membership from a national calendar.
type JurisdictionCalendar struct {
	Country  string
	calendar *cal.BusinessCalendar
}

// Jurisdiction returns the national calendar for a country code.
func Jurisdiction(country string) (*JurisdictionCalendar, error) {
	bc := cal.NewBusinessCalendar()
	bc.Cacheable = true

	switch strings.ToUpper(country) {
	case "US":
		bc.AddHoliday(us.Holidays...)
	case "GB":
		bc.AddHoliday(gb.Holidays...)
	case "DE":
		bc.AddHoliday(de.Holidays...)
	default:
		return nil, fmt.Errorf("no national calendar for country %q", country)
	}

	return &JurisdictionCalendar{Country: strings.ToUpper(country), calendar: bc}, nil
}

func (j *JurisdictionCalendar) IsHoliday(day time.Time) bool {
	actual, observed, _ := j.calendar.IsHoliday(day)
	return actual || observed
}

var _ laytime.HolidayCalendar = (*JurisdictionCalendar)(nil)
