/*
dossier.go - YAML dossier file codec

PURPOSE:
  Lets a dossier live as a plain YAML file for the CLI workflow: brokers
  keep the charter party terms and SOF in one reviewable document, run the
  settlement locally, and only touch the server when they want persistence.

FORMAT:
  name: MV Halcyon / Singapore
  port: SGSIN
  terms:
    allowed_days: 3
    commencement: 2025-03-03T00:00:00Z
    demurrage_rate_per_day: 24000
    despatch_rate_per_day: 12000
    currency: USD
    weekend_term: SHEX
    holiday_usage_term: UU
  events:
    - id: ev-1
      from: 2025-03-03T06:00:00Z
      to: 2025-03-04T00:00:00Z
      kind: working
      countable_percent: 100
*/
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/seafix/laytime-engine/laytime"
)

type dossierFile struct {
	Name   string      `yaml:"name"`
	Port   string      `yaml:"port"`
	Terms  termsFile   `yaml:"terms"`
	Events []eventFile `yaml:"events"`
}

type termsFile struct {
	AllowedDays         float64 `yaml:"allowed_days"`
	AllowedHours        float64 `yaml:"allowed_hours"`
	Commencement        string  `yaml:"commencement"`
	DemurrageRatePerDay float64 `yaml:"demurrage_rate_per_day"`
	DespatchRatePerDay  float64 `yaml:"despatch_rate_per_day"`
	Currency            string  `yaml:"currency"`
	WeekendTerm         string  `yaml:"weekend_term"`
	HolidayUsageTerm    string  `yaml:"holiday_usage_term"`
}

type eventFile struct {
	ID               string  `yaml:"id"`
	From             string  `yaml:"from"`
	To               string  `yaml:"to"`
	Kind             string  `yaml:"kind"`
	CountablePercent float64 `yaml:"countable_percent"`
}

// loadDossier reads and validates a dossier file, returning terms and a
// contiguity-checked ledger ready for settlement.
func loadDossier(path string) (dossierFile, laytime.CharterPartyTerms, *laytime.Ledger, error) {
	var df dossierFile

	data, err := os.ReadFile(path)
	if err != nil {
		return df, laytime.CharterPartyTerms{}, nil, fmt.Errorf("read dossier: %w", err)
	}
	if err := yaml.Unmarshal(data, &df); err != nil {
		return df, laytime.CharterPartyTerms{}, nil, fmt.Errorf("parse dossier: %w", err)
	}

	terms, err := df.Terms.toTerms()
	if err != nil {
		return df, laytime.CharterPartyTerms{}, nil, err
	}
	warnings, err := terms.Validate()
	if err != nil {
		return df, laytime.CharterPartyTerms{}, nil, err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message)
	}

	ledger := laytime.NewLedger(terms.Commencement)
	for i, ef := range df.Events {
		event, err := ef.toEvent()
		if err != nil {
			return df, laytime.CharterPartyTerms{}, nil, fmt.Errorf("event %d: %w", i, err)
		}
		if err := ledger.AddEvent(event); err != nil {
			return df, laytime.CharterPartyTerms{}, nil, err
		}
	}
	return df, terms, ledger, nil
}

func (t termsFile) toTerms() (laytime.CharterPartyTerms, error) {
	var commencement time.Time
	if t.Commencement != "" {
		var err error
		commencement, err = time.Parse(time.RFC3339, t.Commencement)
		if err != nil {
			return laytime.CharterPartyTerms{}, fmt.Errorf("bad commencement %q: %w", t.Commencement, err)
		}
	}
	ccy := laytime.Currency(t.Currency)
	return laytime.CharterPartyTerms{
		AllowedHours:        laytime.AllowanceFromDaysHours(t.AllowedDays, t.AllowedHours),
		Commencement:        commencement.UTC(),
		DemurrageRatePerDay: laytime.NewMoney(t.DemurrageRatePerDay, ccy),
		DespatchRatePerDay:  laytime.NewMoney(t.DespatchRatePerDay, ccy),
		WeekendTerm:         laytime.WeekendTerm(t.WeekendTerm),
		HolidayUsageTerm:    laytime.HolidayUsageTerm(t.HolidayUsageTerm),
	}, nil
}

func (e eventFile) toEvent() (laytime.SofEvent, error) {
	from, err := time.Parse(time.RFC3339, e.From)
	if err != nil {
		return laytime.SofEvent{}, fmt.Errorf("bad from %q: %w", e.From, err)
	}
	to, err := time.Parse(time.RFC3339, e.To)
	if err != nil {
		return laytime.SofEvent{}, fmt.Errorf("bad to %q: %w", e.To, err)
	}
	return laytime.SofEvent{
		ID:               e.ID,
		From:             from.UTC(),
		To:               to.UTC(),
		Kind:             laytime.EventKind(e.Kind),
		CountablePercent: decimal.NewFromFloat(e.CountablePercent),
	}, nil
}
