/*
config.go - YAML port-calendar configuration

PURPOSE:
  Port holiday lists are external configuration data, maintained alongside
  the deployment rather than in code. The file maps port codes to either an
  explicit date list, a country code for a national-calendar fallback, or
  both (explicit dates win for the days they cover).

FORMAT:
  ports:
    - port: SGSIN
      name: Singapore
      holidays:
        - 2025-01-01
        - 2025-01-29
    - port: USHOU
      name: Houston
      country: US
*/
package calendar

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seafix/laytime-engine/laytime"
)

type configFile struct {
	Ports []portConfig `yaml:"ports"`
}

type portConfig struct {
	Port     string   `yaml:"port"`
	Name     string   `yaml:"name"`
	Country  string   `yaml:"country"`
	Holidays []string `yaml:"holidays"`
}

// LoadFile reads a port-calendar configuration file into a Set. A missing
// file is not an error: settlement runs with no holidays.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open calendar config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes YAML port-calendar configuration.
func Parse(r io.Reader) (*Set, error) {
	var cfg configFile
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		if err == io.EOF {
			return NewSet(), nil
		}
		return nil, fmt.Errorf("decode calendar config: %w", err)
	}

	set := NewSet()
	for _, pc := range cfg.Ports {
		if pc.Port == "" {
			return nil, fmt.Errorf("calendar config: port code is required")
		}
		cal, err := buildPort(pc)
		if err != nil {
			return nil, err
		}
		set.Register(pc.Port, cal)
	}
	return set, nil
}

func buildPort(pc portConfig) (laytime.HolidayCalendar, error) {
	var explicit *PortCalendar
	if len(pc.Holidays) > 0 {
		days := make([]time.Time, 0, len(pc.Holidays))
		for _, s := range pc.Holidays {
			d, err := time.Parse(dayFormat, s)
			if err != nil {
				return nil, fmt.Errorf("calendar config: port %s: bad holiday date %q: %w", pc.Port, s, err)
			}
			days = append(days, d)
		}
		explicit = NewPortCalendar(pc.Port, pc.Name, days)
	}

	if pc.Country == "" {
		if explicit == nil {
			return laytime.EmptyCalendar{}, nil
		}
		return explicit, nil
	}

	national, err := Jurisdiction(pc.Country)
	if err != nil {
		return nil, fmt.Errorf("calendar config: port %s: %w", pc.Port, err)
	}
	if explicit == nil {
		return national, nil
	}
	return union{explicit, national}, nil
}

// union is a calendar marking a day when any member does.
type union []laytime.HolidayCalendar

func (u union) IsHoliday(day time.Time) bool {
	for _, c := range u {
		if c.IsHoliday(day) {
			return true
		}
	}
	return false
}
