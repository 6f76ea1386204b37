/*
ledger.go - SOF event ledger with the contiguity invariant

PURPOSE:
  The Ledger holds the Statement of Facts as an ordered list of interval
  events. The accumulator interprets a gap in the record as ambiguous time,
  so the ledger enforces a GLOBAL invariant after EVERY edit, not just on
  the touched record:

    Sorted by From, events from the commencement instant onward must be
    contiguous and non-overlapping - each event's From equals the previous
    event's To. Events wholly before commencement are tolerated (they are
    discarded by the resolver).

EDIT SEMANTICS:
  AddEvent, UpdateEvent and RemoveEvent apply the edit to a scratch copy,
  re-validate the whole ledger, and commit only on success. A violation is
  reported as a GapOrOverlapError naming the conflicting pair of events, so
  the edit surface can point the user at exactly what to fix.

SEE ALSO:
  - resolver.go: consumes Events() in chronological order
  - errors.go: GapOrOverlapError, EventError
*/
package laytime

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	commencement time.Time
	events       []SofEvent // kept sorted by From
}

func NewLedger(commencement time.Time) *Ledger {
	return &Ledger{commencement: commencement}
}

// LedgerFromEvents rebuilds a ledger from persisted events, re-validating the
// contiguity invariant. Dossier storage persists events verbatim and re-runs
// this on load so persisted data can never bypass validation.
func LedgerFromEvents(commencement time.Time, events []SofEvent) (*Ledger, error) {
	sorted := make([]SofEvent, len(events))
	copy(sorted, events)
	sortEvents(sorted)

	for _, e := range sorted {
		if err := checkEvent(e); err != nil {
			return nil, err
		}
	}
	if err := checkContiguity(sorted, commencement); err != nil {
		return nil, err
	}
	return &Ledger{commencement: commencement, events: sorted}, nil
}

func (l *Ledger) Commencement() time.Time { return l.commencement }

// Events returns the events sorted by From. The slice is a copy; the caller
// cannot mutate ledger state through it.
func (l *Ledger) Events() []SofEvent {
	out := make([]SofEvent, len(l.events))
	copy(out, l.events)
	return out
}

func (l *Ledger) Len() int { return len(l.events) }

// AddEvent inserts a new event and re-validates the global invariant.
func (l *Ledger) AddEvent(e SofEvent) error {
	if err := checkEvent(e); err != nil {
		return err
	}
	for _, existing := range l.events {
		if existing.ID == e.ID {
			return ErrDuplicateEventID
		}
	}
	next := append(l.Events(), e)
	return l.commit(next)
}

// UpdateEvent replaces the event with the same ID and re-validates.
func (l *Ledger) UpdateEvent(e SofEvent) error {
	if err := checkEvent(e); err != nil {
		return err
	}
	next := l.Events()
	found := false
	for i := range next {
		if next[i].ID == e.ID {
			next[i] = e
			found = true
			break
		}
	}
	if !found {
		return ErrEventNotFound
	}
	return l.commit(next)
}

// RemoveEvent deletes an event and re-validates. Removing a middle event
// leaves a gap between its neighbours and is therefore rejected.
func (l *Ledger) RemoveEvent(id string) error {
	next := l.events[:0:0]
	found := false
	for _, e := range l.events {
		if e.ID == id {
			found = true
			continue
		}
		next = append(next, e)
	}
	if !found {
		return ErrEventNotFound
	}
	return l.commit(next)
}

// Validate re-checks the global invariant over the current state.
func (l *Ledger) Validate() error {
	return checkContiguity(l.events, l.commencement)
}

func (l *Ledger) commit(next []SofEvent) error {
	sortEvents(next)
	if err := checkContiguity(next, l.commencement); err != nil {
		return err
	}
	l.events = next
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

func sortEvents(events []SofEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].From.Equal(events[j].From) {
			return events[i].To.Before(events[j].To)
		}
		return events[i].From.Before(events[j].From)
	})
}

var oneHundred = decimal.NewFromInt(100)

func checkEvent(e SofEvent) error {
	if e.ID == "" {
		return &EventError{EventID: e.ID, Message: "missing id"}
	}
	if !e.To.After(e.From) {
		return &EventError{EventID: e.ID, Message: "to must be after from"}
	}
	if e.CountablePercent.IsNegative() || e.CountablePercent.GreaterThan(oneHundred) {
		return &EventError{EventID: e.ID, Message: "countable percent must be in [0, 100]"}
	}
	return nil
}

// checkContiguity enforces the invariant over events sorted by From. Events
// ending at or before commencement are outside the accounted window and are
// skipped; everything from commencement onward must chain exactly.
func checkContiguity(events []SofEvent, commencement time.Time) error {
	var prev *SofEvent
	for i := range events {
		e := &events[i]
		if !e.To.After(commencement) {
			continue // wholly before commencement, discarded downstream
		}
		if prev != nil {
			if e.From.Before(prev.To) {
				return &GapOrOverlapError{
					PrevID: prev.ID, NextID: e.ID,
					PrevTo: prev.To, NextFrom: e.From,
					Overlap: true,
				}
			}
			if e.From.After(prev.To) {
				return &GapOrOverlapError{
					PrevID: prev.ID, NextID: e.ID,
					PrevTo: prev.To, NextFrom: e.From,
				}
			}
		}
		prev = e
	}
	return nil
}
