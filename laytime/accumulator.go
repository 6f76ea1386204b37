/*
accumulator.go - Running laytime usage and the time bar

PURPOSE:
  Walks the day-split, annotated intervals in chronological order from the
  commencement instant, accumulating countable hours:

    usedHours += duration(interval) * effectiveCountableFraction

  It also records the time bar: the first instant at which used time equals
  the allowance, found by linear interpolation within the interval that
  crosses the threshold. Laytime stops running exactly at exhaustion, and
  downstream reporting needs the clock time, not just the day.

  If the ledger ends before the threshold, the time bar is nil and the
  vessel is still on laytime - the dossier is provisional, not erroneous.
*/
package laytime

import (
	"time"

	"github.com/shopspring/decimal"
)

// Usage is the accumulator's output.
type Usage struct {
	UsedHours decimal.Decimal
	TimeBar   *time.Time
	// Provisional is true when the allowance was not exhausted by the end of
	// the ledger. The settlement exists but must not be presented as final.
	Provisional bool
}

// Accumulate totals countable hours over intervals (already clipped to the
// commencement instant and in chronological order) against the allowance.
func Accumulate(intervals []AnnotatedInterval, allowedHours decimal.Decimal, commencement time.Time) Usage {
	used := decimal.Zero
	var timeBar *time.Time

	if allowedHours.IsZero() {
		// Allowance exhausted the moment laytime commences.
		tb := commencement
		timeBar = &tb
	}

	for _, iv := range intervals {
		counted := iv.CountedHours()
		if timeBar == nil && used.Add(counted).GreaterThanOrEqual(allowedHours) && counted.IsPositive() {
			timeBar = interpolateTimeBar(iv, allowedHours.Sub(used))
		}
		used = used.Add(counted)
	}

	return Usage{
		UsedHours:   used,
		TimeBar:     timeBar,
		Provisional: timeBar == nil,
	}
}

// interpolateTimeBar finds the instant within iv at which the remaining
// allowance is consumed. The interval counts remaining/iv.Fraction clock
// hours before exhaustion.
func interpolateTimeBar(iv AnnotatedInterval, remaining decimal.Decimal) *time.Time {
	if iv.Fraction.IsZero() {
		return nil // callers only interpolate intervals that count
	}
	clockHours := remaining.Div(iv.Fraction)
	offset := time.Duration(clockHours.Mul(decimal.NewFromInt(int64(time.Hour))).IntPart())
	tb := iv.From.Add(offset)
	return &tb
}
