/*
Package calendar provides HolidayCalendar implementations for the engine.

PURPOSE:
  The engine only consumes a predicate (laytime.HolidayCalendar); this
  package supplies it from two sources:

  - PortCalendar: an explicit per-port date list, usually loaded from YAML
    configuration (config.go). This is the authoritative source when the
    broker has the port's official holiday circular.
  - JurisdictionCalendar: national public holidays via rickar/cal, used as
    a fallback for ports with no bespoke list (jurisdiction.go).

  A Set groups calendars by port code and degrades to "no holidays" for
  unknown ports, matching the engine's empty-calendar contract.
*/
package calendar

import (
	"sort"
	"time"

	"github.com/seafix/laytime-engine/laytime"
)

// =============================================================================
// PORT CALENDAR - Explicit holiday dates for one port
// =============================================================================

const dayFormat = "2006-01-02"

// PortCalendar holds an explicit holiday date set for a port or jurisdiction.
type PortCalendar struct {
	Port string // UN/LOCODE-style port code, e.g. "SGSIN"
	Name string
	days map[string]bool
}

func NewPortCalendar(port, name string, days []time.Time) *PortCalendar {
	c := &PortCalendar{Port: port, Name: name, days: make(map[string]bool, len(days))}
	for _, d := range days {
		c.days[d.Format(dayFormat)] = true
	}
	return c
}

func (c *PortCalendar) IsHoliday(day time.Time) bool {
	return c.days[day.Format(dayFormat)]
}

func (c *PortCalendar) Add(day time.Time) {
	c.days[day.Format(dayFormat)] = true
}

// Dates returns the holiday dates in chronological order.
func (c *PortCalendar) Dates() []time.Time {
	keys := make([]string, 0, len(c.days))
	for k := range c.days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	dates := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		d, err := time.Parse(dayFormat, k)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

var _ laytime.HolidayCalendar = (*PortCalendar)(nil)

// =============================================================================
// SET - Calendars grouped by port code
// =============================================================================

type Set struct {
	ports map[string]laytime.HolidayCalendar
}

func NewSet() *Set {
	return &Set{ports: make(map[string]laytime.HolidayCalendar)}
}

func (s *Set) Register(port string, cal laytime.HolidayCalendar) {
	s.ports[port] = cal
}

// ForPort returns the calendar for a port, or an empty calendar when the
// port is unknown. Settlement never fails for lack of holiday data.
func (s *Set) ForPort(port string) laytime.HolidayCalendar {
	if cal, ok := s.ports[port]; ok {
		return cal
	}
	return laytime.EmptyCalendar{}
}

func (s *Set) Ports() []string {
	ports := make([]string, 0, len(s.ports))
	for p := range s.ports {
		ports = append(ports, p)
	}
	sort.Strings(ports)
	return ports
}
