/*
resolver.go - Weekend/holiday exception resolution

PURPOSE:
  Annotates every ledger interval with the fraction of it that counts
  against the laytime allowance, combining the event's own CP-negotiated
  percentage with the applicable weekend/holiday rule.

DAY-SPLITTING:
  Exception status is a property of a calendar day, not of an event. An
  event spanning midnight is split at each day boundary BEFORE classification
  so that, e.g., Saturday 22:00 -> Sunday 02:00 under SHEX counts only its
  pre-midnight portion.

RESOLUTION RULES (per day-split sub-interval):
  - Day not excluded            -> fraction = countablePercent / 100
  - Excluded day, EIU           -> fraction = 0, regardless of activity
  - Excluded day, UU, working   -> fraction = countablePercent / 100
  - Excluded day, UU, any other -> fraction = 0 ("unless used" waives the
    exclusion only where the vessel was actually worked)
  - Holiday-kind event          -> fraction = 0 always (a period the SOF
    itself tags as holiday cannot count)
  - Unknown kind                -> resolved as working, with a warning;
    under-counting used laytime is commercially safer than dropping time

SEE ALSO:
  - calendar.go: ExcludedDay and midnight helpers
  - accumulator.go: consumes the annotated intervals in order
*/
package laytime

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Resolve clips the events to the commencement instant, splits them at day
// boundaries, and annotates each sub-interval with its effective countable
// fraction. Events must already satisfy the ledger invariant.
func Resolve(events []SofEvent, terms CharterPartyTerms, cal HolidayCalendar) ([]AnnotatedInterval, []Warning) {
	var (
		intervals []AnnotatedInterval
		warnings  []Warning
	)

	for _, e := range events {
		if !e.To.After(terms.Commencement) {
			continue // wholly before commencement
		}
		from := e.From
		if from.Before(terms.Commencement) {
			from = terms.Commencement
		}

		kind := e.Kind
		if !KnownKind(kind) {
			warnings = append(warnings, Warning{
				Code:    WarnUnresolvedKind,
				EventID: e.ID,
				Message: fmt.Sprintf("unrecognized event kind %q treated as working", e.Kind),
			})
			kind = KindWorking
		}

		for _, span := range splitAtMidnights(from, e.To) {
			excluded := ExcludedDay(span.from, terms.WeekendTerm, cal)
			intervals = append(intervals, AnnotatedInterval{
				EventID:          e.ID,
				Kind:             e.Kind,
				From:             span.from,
				To:               span.to,
				CalendarExcluded: excluded,
				Fraction:         effectiveFraction(kind, e.CountablePercent, excluded, terms.HolidayUsageTerm),
			})
		}
	}
	return intervals, warnings
}

type timespan struct {
	from, to time.Time
}

// splitAtMidnights cuts [from, to) at every midnight it crosses.
func splitAtMidnights(from, to time.Time) []timespan {
	var spans []timespan
	cur := from
	for cur.Before(to) {
		end := nextMidnight(cur)
		if end.After(to) {
			end = to
		}
		spans = append(spans, timespan{from: cur, to: end})
		cur = end
	}
	return spans
}

// effectiveFraction applies the resolution rules. kind has already been
// normalized (unknown kinds arrive here as working).
func effectiveFraction(kind EventKind, percent decimal.Decimal, excluded bool, usage HolidayUsageTerm) decimal.Decimal {
	if kind == KindHoliday {
		return decimal.Zero
	}
	fraction := percent.Div(oneHundred)
	if !excluded {
		return fraction
	}
	if usage == UU && kind == KindWorking {
		return fraction
	}
	return decimal.Zero
}
