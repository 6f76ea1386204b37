/*
terms.go - Charter party terms and validation

PURPOSE:
  CharterPartyTerms is the immutable value object describing what the charter
  party grants and charges: the laytime allowance, the commencement instant,
  the demurrage/despatch daily rates, and the weekend/holiday exception
  regime. Created once per dossier, replaced wholesale on edit.

VALIDATION:
  Validate() rejects structurally broken terms (negative allowance, negative
  rates, currency mismatch, missing commencement) with an InvalidTermsError
  naming every bad field. A zero-rate CP with a positive allowance is legal
  but commercially suspicious, so it produces a warning rather than an error.

SEE ALSO:
  - settlement.go: Settle() calls Validate() before computing anything
*/
package laytime

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CHARTER PARTY TERMS
// =============================================================================

type CharterPartyTerms struct {
	// AllowedHours is the laytime allowance, derived from the days+hours the
	// user entered. Must be >= 0.
	AllowedHours decimal.Decimal

	// Commencement is the instant laytime starts counting. Ledger intervals
	// before it are discarded.
	Commencement time.Time

	// Daily rates, pro-rated per hour at settlement. Same currency, >= 0.
	DemurrageRatePerDay Money
	DespatchRatePerDay  Money

	WeekendTerm      WeekendTerm
	HolidayUsageTerm HolidayUsageTerm
}

// AllowanceFromDaysHours converts the days+hours pair the edit surface
// collects into a single decimal hour figure.
func AllowanceFromDaysHours(days, hours float64) decimal.Decimal {
	return decimal.NewFromFloat(days).Mul(decimal.NewFromInt(24)).Add(decimal.NewFromFloat(hours))
}

// Currency returns the settlement currency of the CP.
func (t CharterPartyTerms) Currency() Currency {
	return t.DemurrageRatePerDay.Currency
}

// Validate checks the terms and returns any non-blocking warnings. A non-nil
// error is an *InvalidTermsError naming every offending field; calculation
// is blocked until all are resolved.
func (t CharterPartyTerms) Validate() ([]Warning, error) {
	var fields []FieldError

	if t.AllowedHours.IsNegative() {
		fields = append(fields, FieldError{Field: "allowed_hours", Message: "allowance must not be negative"})
	}
	if t.Commencement.IsZero() {
		fields = append(fields, FieldError{Field: "commencement", Message: "commencement instant is required"})
	}
	if t.DemurrageRatePerDay.IsNegative() {
		fields = append(fields, FieldError{Field: "demurrage_rate", Message: "rate must not be negative"})
	}
	if t.DespatchRatePerDay.IsNegative() {
		fields = append(fields, FieldError{Field: "despatch_rate", Message: "rate must not be negative"})
	}
	if !ValidCurrency(t.DemurrageRatePerDay.Currency) {
		fields = append(fields, FieldError{Field: "currency", Message: "unknown currency"})
	}
	if t.DemurrageRatePerDay.Currency != t.DespatchRatePerDay.Currency {
		fields = append(fields, FieldError{Field: "currency", Message: "demurrage and despatch rates must share a currency"})
	}
	if !ValidWeekendTerm(t.WeekendTerm) {
		fields = append(fields, FieldError{Field: "weekend_term", Message: "must be one of SHINC, SHEX, SSHINC, SSHEX"})
	}
	if !ValidHolidayUsageTerm(t.HolidayUsageTerm) {
		fields = append(fields, FieldError{Field: "holiday_usage_term", Message: "must be UU or EIU"})
	}

	if len(fields) > 0 {
		return nil, &InvalidTermsError{Fields: fields}
	}

	var warnings []Warning
	if t.AllowedHours.IsPositive() && t.DemurrageRatePerDay.IsZero() && t.DespatchRatePerDay.IsZero() {
		warnings = append(warnings, Warning{
			Code:    WarnZeroRates,
			Message: "allowance is set but both daily rates are zero; settlement amount will always be zero",
		})
	}
	return warnings, nil
}
