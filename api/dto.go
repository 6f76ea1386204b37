/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the engine's decimal-
  and time-typed domain model from the wire format. Hours and amounts cross
  the wire as strings so clients never see float artifacts; instants are
  RFC 3339.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

SEE ALSO:
  - handlers.go: parsing, validation and error mapping live there
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seafix/laytime-engine/extract"
	"github.com/seafix/laytime-engine/laytime"
	"github.com/seafix/laytime-engine/store"
)

// =============================================================================
// TERMS
// =============================================================================

// TermsRequest mirrors the terms edit surface: the allowance arrives as the
// days+hours pair the broker enters, not a precomputed hour figure.
type TermsRequest struct {
	AllowedDays         float64 `json:"allowed_days"`
	AllowedHours        float64 `json:"allowed_hours"`
	Commencement        string  `json:"commencement"` // RFC 3339
	DemurrageRatePerDay float64 `json:"demurrage_rate_per_day"`
	DespatchRatePerDay  float64 `json:"despatch_rate_per_day"`
	Currency            string  `json:"currency"`
	WeekendTerm         string  `json:"weekend_term"`
	HolidayUsageTerm    string  `json:"holiday_usage_term"`
}

func (r TermsRequest) toTerms() (laytime.CharterPartyTerms, error) {
	var commencement time.Time
	if r.Commencement != "" {
		var err error
		commencement, err = time.Parse(time.RFC3339, r.Commencement)
		if err != nil {
			return laytime.CharterPartyTerms{}, fmt.Errorf("bad commencement %q: %w", r.Commencement, err)
		}
	}
	ccy := laytime.Currency(r.Currency)
	return laytime.CharterPartyTerms{
		AllowedHours:        laytime.AllowanceFromDaysHours(r.AllowedDays, r.AllowedHours),
		Commencement:        commencement.UTC(),
		DemurrageRatePerDay: laytime.NewMoney(r.DemurrageRatePerDay, ccy),
		DespatchRatePerDay:  laytime.NewMoney(r.DespatchRatePerDay, ccy),
		WeekendTerm:         laytime.WeekendTerm(r.WeekendTerm),
		HolidayUsageTerm:    laytime.HolidayUsageTerm(r.HolidayUsageTerm),
	}, nil
}

type TermsDTO struct {
	AllowedHours        string `json:"allowed_hours"`
	Commencement        string `json:"commencement"`
	DemurrageRatePerDay string `json:"demurrage_rate_per_day"`
	DespatchRatePerDay  string `json:"despatch_rate_per_day"`
	Currency            string `json:"currency"`
	WeekendTerm         string `json:"weekend_term"`
	HolidayUsageTerm    string `json:"holiday_usage_term"`
}

func termsDTO(t laytime.CharterPartyTerms) TermsDTO {
	return TermsDTO{
		AllowedHours:        t.AllowedHours.String(),
		Commencement:        t.Commencement.Format(time.RFC3339),
		DemurrageRatePerDay: t.DemurrageRatePerDay.Value.String(),
		DespatchRatePerDay:  t.DespatchRatePerDay.Value.String(),
		Currency:            string(t.Currency()),
		WeekendTerm:         string(t.WeekendTerm),
		HolidayUsageTerm:    string(t.HolidayUsageTerm),
	}
}

// =============================================================================
// EVENTS
// =============================================================================

type EventRequest struct {
	ID               string  `json:"id"`
	From             string  `json:"from"` // RFC 3339
	To               string  `json:"to"`
	Kind             string  `json:"kind"`
	CountablePercent float64 `json:"countable_percent"`
}

func (r EventRequest) toEvent() (laytime.SofEvent, error) {
	from, err := time.Parse(time.RFC3339, r.From)
	if err != nil {
		return laytime.SofEvent{}, fmt.Errorf("bad from %q: %w", r.From, err)
	}
	to, err := time.Parse(time.RFC3339, r.To)
	if err != nil {
		return laytime.SofEvent{}, fmt.Errorf("bad to %q: %w", r.To, err)
	}
	return laytime.SofEvent{
		ID:               r.ID,
		From:             from.UTC(),
		To:               to.UTC(),
		Kind:             laytime.EventKind(r.Kind),
		CountablePercent: decimal.NewFromFloat(r.CountablePercent),
	}, nil
}

type EventDTO struct {
	ID               string `json:"id"`
	From             string `json:"from"`
	To               string `json:"to"`
	Kind             string `json:"kind"`
	CountablePercent string `json:"countable_percent"`
}

func eventDTO(e laytime.SofEvent) EventDTO {
	return EventDTO{
		ID:               e.ID,
		From:             e.From.Format(time.RFC3339),
		To:               e.To.Format(time.RFC3339),
		Kind:             string(e.Kind),
		CountablePercent: e.CountablePercent.String(),
	}
}

// =============================================================================
// DOSSIERS
// =============================================================================

type CreateDossierRequest struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Port   string         `json:"port"`
	Terms  TermsRequest   `json:"terms"`
	Events []EventRequest `json:"events"`
}

type DossierDTO struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Port      string     `json:"port"`
	Terms     TermsDTO   `json:"terms"`
	Events    []EventDTO `json:"events"`
	CreatedAt string     `json:"created_at,omitempty"`
	UpdatedAt string     `json:"updated_at,omitempty"`
}

func dossierDTO(d *store.Dossier) DossierDTO {
	events := make([]EventDTO, 0, len(d.Events))
	for _, e := range d.Events {
		events = append(events, eventDTO(e))
	}
	return DossierDTO{
		ID:        d.ID,
		Name:      d.Name,
		Port:      d.Port,
		Terms:     termsDTO(d.Terms),
		Events:    events,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// SETTLEMENT
// =============================================================================

type IntervalDTO struct {
	EventID          string `json:"event_id"`
	Kind             string `json:"kind"`
	From             string `json:"from"`
	To               string `json:"to"`
	CalendarExcluded bool   `json:"calendar_excluded"`
	Fraction         string `json:"fraction"`
	CountedHours     string `json:"counted_hours"`
}

type WarningDTO struct {
	Code    string `json:"code"`
	EventID string `json:"event_id,omitempty"`
	Message string `json:"message"`
}

type SettlementDTO struct {
	UsedHours    string        `json:"used_hours"`
	AllowedHours string        `json:"allowed_hours"`
	Outcome      string        `json:"outcome"`
	Amount       string        `json:"amount"` // rounded to the minor unit
	Currency     string        `json:"currency"`
	TimeBar      string        `json:"time_bar,omitempty"`
	Provisional  bool          `json:"provisional"`
	Intervals    []IntervalDTO `json:"intervals"`
	Warnings     []WarningDTO  `json:"warnings,omitempty"`
}

func settlementDTO(r laytime.SettlementResult) SettlementDTO {
	dto := SettlementDTO{
		UsedHours:    r.UsedHours.String(),
		AllowedHours: r.AllowedHours.String(),
		Outcome:      string(r.Outcome),
		Amount:       r.Amount.Rounded().Value.StringFixed(2),
		Currency:     string(r.Amount.Currency),
		Provisional:  r.Provisional,
		Intervals:    make([]IntervalDTO, 0, len(r.Intervals)),
	}
	if r.TimeBar != nil {
		dto.TimeBar = r.TimeBar.Format(time.RFC3339)
	}
	for _, iv := range r.Intervals {
		dto.Intervals = append(dto.Intervals, IntervalDTO{
			EventID:          iv.EventID,
			Kind:             string(iv.Kind),
			From:             iv.From.Format(time.RFC3339),
			To:               iv.To.Format(time.RFC3339),
			CalendarExcluded: iv.CalendarExcluded,
			Fraction:         iv.Fraction.String(),
			CountedHours:     iv.CountedHours().String(),
		})
	}
	for _, w := range r.Warnings {
		dto.Warnings = append(dto.Warnings, WarningDTO{
			Code:    string(w.Code),
			EventID: w.EventID,
			Message: w.Message,
		})
	}
	return dto
}

// =============================================================================
// EXTRACTION
// =============================================================================

type ExtractionDTO struct {
	Candidates []extract.Candidate `json:"candidates"`
	Events     []EventDTO          `json:"events"`
	Rejected   []RejectedDTO       `json:"rejected,omitempty"`
}

type RejectedDTO struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}
