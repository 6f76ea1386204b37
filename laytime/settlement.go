/*
settlement.go - The settle() entry point and settlement arithmetic

PURPOSE:
  Compares total countable hours to the allowance and computes the demurrage
  or despatch amount at the contracted daily rate, pro-rated PER HOUR:

    delta = usedHours - allowedHours
    delta > 0  ->  demurrage = (delta / 24) * demurrageRatePerDay
    delta < 0  ->  despatch  = (-delta / 24) * despatchRatePerDay
    delta == 0 ->  even, amount 0

  A half-day of demurrage is half the daily rate - never rounded to whole
  days. The amount keeps full precision; rounding to the currency minor unit
  happens only in the report layer, so many small intervals cannot compound
  rounding error.

RECOMPUTATION MODEL:
  Settle is a pure, synchronous function. Every edit to terms or ledger
  triggers a full recomputation from scratch; cost is linear in the number
  of day-split intervals. There is no incremental update path.
*/
package laytime

import "github.com/shopspring/decimal"

var hoursPerDay = decimal.NewFromInt(24)

// Settle runs the full pipeline: validate terms and ledger, resolve
// exceptions, accumulate usage, and compute the monetary settlement.
// Given valid inputs the calculation itself cannot fail.
func Settle(terms CharterPartyTerms, ledger *Ledger, cal HolidayCalendar) (SettlementResult, error) {
	warnings, err := terms.Validate()
	if err != nil {
		return SettlementResult{}, err
	}
	if err := ledger.Validate(); err != nil {
		return SettlementResult{}, err
	}

	intervals, resolveWarnings := Resolve(ledger.Events(), terms, cal)
	warnings = append(warnings, resolveWarnings...)

	usage := Accumulate(intervals, terms.AllowedHours, terms.Commencement)
	if usage.Provisional {
		warnings = append(warnings, Warning{
			Code:    WarnProvisional,
			Message: "statement of facts ends before the allowance is exhausted; settlement is provisional",
		})
	}

	outcome, amount := settleDelta(usage.UsedHours.Sub(terms.AllowedHours), terms)

	return SettlementResult{
		UsedHours:    usage.UsedHours,
		AllowedHours: terms.AllowedHours,
		Outcome:      outcome,
		Amount:       amount,
		TimeBar:      usage.TimeBar,
		Provisional:  usage.Provisional,
		Intervals:    intervals,
		Warnings:     warnings,
	}, nil
}

func settleDelta(delta decimal.Decimal, terms CharterPartyTerms) (SettlementOutcome, Money) {
	switch {
	case delta.IsPositive():
		return OutcomeDemurrage, terms.DemurrageRatePerDay.Mul(delta.Div(hoursPerDay))
	case delta.IsNegative():
		return OutcomeDespatch, terms.DespatchRatePerDay.Mul(delta.Neg().Div(hoursPerDay))
	default:
		return OutcomeEven, Money{Value: decimal.Zero, Currency: terms.Currency()}
	}
}
