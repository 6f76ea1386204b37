/*
Package extract models the SOF-from-document extraction boundary.

PURPOSE:
  An uploaded statement of facts (PDF, scan) can be run through an external
  extraction service that proposes CANDIDATE events. Candidates are
  untrusted: they carry no validity guarantee and never enter a ledger
  until the user has reviewed them and the ledger's contiguity checks pass.

  The engine stays fully decoupled: extraction is an explicit call returning
  candidates or an error, never a mutation of shared state. A failed or
  absent extractor simply yields zero candidates and the user falls back to
  manual entry.

SEE ALSO:
  - laytime/ledger.go: where promoted events are actually validated
*/
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seafix/laytime-engine/laytime"
)

// =============================================================================
// EXTRACTION BOUNDARY
// =============================================================================

// Candidate is one proposed SOF line as the extraction service reports it:
// loosely typed, split into day and time-of-day fields, unvalidated.
type Candidate struct {
	FromDay  string  `json:"from_day"`  // "2006-01-02"
	FromTime string  `json:"from_time"` // "15:04"
	ToDay    string  `json:"to_day"`
	ToTime   string  `json:"to_time"`
	Kind     string  `json:"kind"`
	Percent  float64 `json:"percent"`
}

// Extractor proposes candidate events from raw document bytes.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mimeType string) ([]Candidate, error)
}

// Nop is an extractor that proposes nothing; configured when no extraction
// service is available. The dossier flow is identical either way.
type Nop struct{}

func (Nop) Extract(context.Context, []byte, string) ([]Candidate, error) {
	return nil, nil
}

// =============================================================================
// PROMOTION - Candidates to unvalidated SofEvents
// =============================================================================

// CandidateError ties a parse failure to the candidate's position so the
// review UI can flag the row.
type CandidateError struct {
	Index int
	Err   error
}

func (e *CandidateError) Error() string {
	return fmt.Sprintf("candidate %d: %v", e.Index, e.Err)
}

func (e *CandidateError) Unwrap() error { return e.Err }

const (
	dayLayout  = "2006-01-02"
	timeLayout = "15:04"
)

// Promote converts candidates into SofEvents the review surface can edit.
// Malformed candidates are reported, not dropped silently; well-formed ones
// are returned even when others fail. The events are NOT ledger-validated
// here - that happens when the user commits them.
func Promote(candidates []Candidate, idPrefix string) ([]laytime.SofEvent, []CandidateError) {
	var (
		events []laytime.SofEvent
		errs   []CandidateError
	)

	for i, c := range candidates {
		from, err := parseStamp(c.FromDay, c.FromTime)
		if err != nil {
			errs = append(errs, CandidateError{Index: i, Err: fmt.Errorf("from: %w", err)})
			continue
		}
		to, err := parseStamp(c.ToDay, c.ToTime)
		if err != nil {
			errs = append(errs, CandidateError{Index: i, Err: fmt.Errorf("to: %w", err)})
			continue
		}
		if !to.After(from) {
			errs = append(errs, CandidateError{Index: i, Err: fmt.Errorf("to %s is not after from %s", to, from)})
			continue
		}
		if c.Percent < 0 || c.Percent > 100 {
			errs = append(errs, CandidateError{Index: i, Err: fmt.Errorf("percent %v outside [0, 100]", c.Percent)})
			continue
		}

		events = append(events, laytime.SofEvent{
			ID:               fmt.Sprintf("%s-%d", idPrefix, i+1),
			From:             from,
			To:               to,
			Kind:             normalizeKind(c.Kind),
			CountablePercent: decimal.NewFromFloat(c.Percent),
		})
	}
	return events, errs
}

func parseStamp(day, tod string) (time.Time, error) {
	d, err := time.Parse(dayLayout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad day %q: %w", day, err)
	}
	t, err := time.Parse(timeLayout, tod)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time %q: %w", tod, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// normalizeKind maps the service's free-text kind onto the engine's closed
// set. Anything unrecognized passes through as-is: the resolver treats
// unknown kinds as working and warns, rather than losing the time.
func normalizeKind(kind string) laytime.EventKind {
	switch kind {
	case "working", "work", "loading", "discharging", "cargo_operations":
		return laytime.KindWorking
	case "weather", "rain", "bad_weather":
		return laytime.KindWeather
	case "waiting", "idle", "awaiting_berth":
		return laytime.KindWaiting
	case "strike":
		return laytime.KindStrike
	case "holiday":
		return laytime.KindHoliday
	case "breakdown", "equipment_failure":
		return laytime.KindBreakdown
	default:
		return laytime.EventKind(kind)
	}
}
