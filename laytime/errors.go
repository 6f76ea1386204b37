/*
errors.go - Centralized error types for the settlement engine

PURPOSE:
  All engine error types in one place. Structural errors (invalid terms,
  ledger gaps/overlaps) are recovered at the edit boundary - the user fixes
  the named field or event pair - and never reach the settlement calculation,
  which is a total function over valid inputs.

ERROR CATEGORIES:
  1. Terms errors  - invalid charter-party fields, block calculation
  2. Ledger errors - contiguity violations naming the conflicting pair
  3. Lookup errors - unknown event/dossier references

USAGE:
  Callers branch with errors.Is / errors.As:

    var gapErr *laytime.GapOrOverlapError
    if errors.As(err, &gapErr) {
        // highlight gapErr.PrevID and gapErr.NextID in the SOF editor
    }
*/
package laytime

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidTerms is returned when charter-party terms fail validation.
	// Calculation is blocked until the named fields are corrected.
	ErrInvalidTerms = errors.New("invalid charter party terms")

	// ErrLedgerGapOrOverlap is returned when an edit breaks the contiguity
	// invariant. Calculation is blocked for that ledger only.
	ErrLedgerGapOrOverlap = errors.New("ledger gap or overlap")

	// ErrInvalidEvent is returned when a single event is malformed
	// (to <= from, percent outside [0,100], missing id).
	ErrInvalidEvent = errors.New("invalid sof event")

	// ErrEventNotFound is returned by update/remove for an unknown event id.
	ErrEventNotFound = errors.New("event not found")

	// ErrDuplicateEventID is returned when adding an event whose id exists.
	ErrDuplicateEventID = errors.New("duplicate event id")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the context the edit UI needs
// =============================================================================

// InvalidTermsError names every offending field so the edit surface can
// highlight them all in one pass.
type InvalidTermsError struct {
	Fields []FieldError
}

type FieldError struct {
	Field   string
	Message string
}

func (e *InvalidTermsError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("invalid terms: %s: %s", e.Fields[0].Field, e.Fields[0].Message)
	}
	return fmt.Sprintf("invalid terms: %d invalid fields", len(e.Fields))
}

func (e *InvalidTermsError) Unwrap() error { return ErrInvalidTerms }

// GapOrOverlapError identifies the two conflicting events, not merely
// "invalid ledger". Overlap=false means a gap between PrevTo and NextFrom.
type GapOrOverlapError struct {
	PrevID   string
	NextID   string
	PrevTo   time.Time
	NextFrom time.Time
	Overlap  bool
}

func (e *GapOrOverlapError) Error() string {
	if e.Overlap {
		return fmt.Sprintf("events %s and %s overlap: %s starts at %s before %s ends at %s",
			e.PrevID, e.NextID, e.NextID, e.NextFrom.Format(time.RFC3339), e.PrevID, e.PrevTo.Format(time.RFC3339))
	}
	return fmt.Sprintf("gap between events %s and %s: %s ends at %s, %s starts at %s",
		e.PrevID, e.NextID, e.PrevID, e.PrevTo.Format(time.RFC3339), e.NextID, e.NextFrom.Format(time.RFC3339))
}

func (e *GapOrOverlapError) Unwrap() error { return ErrLedgerGapOrOverlap }

// EventError names the malformed event and the reason.
type EventError struct {
	EventID string
	Message string
}

func (e *EventError) Error() string {
	return fmt.Sprintf("event %s: %s", e.EventID, e.Message)
}

func (e *EventError) Unwrap() error { return ErrInvalidEvent }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to correctable user input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTerms) ||
		errors.Is(err, ErrLedgerGapOrOverlap) ||
		errors.Is(err, ErrInvalidEvent) ||
		errors.Is(err, ErrDuplicateEventID)
}

// IsNotFound reports whether the error indicates a missing reference.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound)
}
