/*
Package laytime provides the laytime and demurrage/despatch settlement engine.

PURPOSE:
  This package contains the core data model and algorithms for turning a set
  of charter-party terms and a Statement of Facts (SOF) event ledger into a
  laytime usage figure and a monetary settlement. The whole pipeline is a
  pure transformation:

    Terms + Ledger -> Exception Resolver -> Accumulator -> Settlement

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A decimal amount with a currency (never converted, rounded late)
  - EventKind: Closed set of SOF event categories (working, weather, ...)
  - WeekendTerm / HolidayUsageTerm: CP exception regime as enumerated types
  - SofEvent: A time-stamped interval from the Statement of Facts
  - AnnotatedInterval: A day-split interval with its countable fraction
  - SettlementResult: The derived outcome (never persisted, always recomputed)

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for hours and money - no float drift
  2. Closed variants: Invalid term/kind combinations are unrepresentable
  3. Purity: No I/O, no clocks, no shared state - settle() is a total function
  4. Late rounding: Amounts round to the minor unit only at reporting time

SEE ALSO:
  - terms.go: CharterPartyTerms and validation
  - ledger.go: SOF event ledger with the contiguity invariant
  - resolver.go: Weekend/holiday exception resolution and day-splitting
  - accumulator.go: Usage accumulation and time-bar interpolation
  - settlement.go: The settle() entry point
*/
package laytime

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Decimal amount with currency
// =============================================================================

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencySGD Currency = "SGD"
)

// Currencies is the closed set accepted by the terms input surface.
var Currencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyJPY, CurrencySGD}

func ValidCurrency(c Currency) bool {
	for _, known := range Currencies {
		if c == known {
			return true
		}
	}
	return false
}

type Money struct {
	Value    decimal.Decimal
	Currency Currency
}

func NewMoney(value float64, currency Currency) Money {
	return Money{Value: decimal.NewFromFloat(value), Currency: currency}
}

func (m Money) Zero() Money                 { return Money{Value: decimal.Zero, Currency: m.Currency} }
func (m Money) Add(o Money) Money           { return Money{Value: m.Value.Add(o.Value), Currency: m.Currency} }
func (m Money) Mul(s decimal.Decimal) Money { return Money{Value: m.Value.Mul(s), Currency: m.Currency} }
func (m Money) IsNegative() bool            { return m.Value.IsNegative() }
func (m Money) IsZero() bool                { return m.Value.IsZero() }

// Rounded returns the amount at the currency's minor unit (2 decimal places).
// Called only at the reporting boundary; intermediate math keeps full precision.
func (m Money) Rounded() Money {
	return Money{Value: m.Value.Round(2), Currency: m.Currency}
}

func (m Money) String() string {
	return string(m.Currency) + " " + m.Value.Round(2).StringFixed(2)
}

// =============================================================================
// CP EXCEPTION REGIME - Weekend and holiday-usage terms
// =============================================================================

// WeekendTerm governs which weekend days are excluded from laytime by default.
type WeekendTerm string

const (
	SHINC  WeekendTerm = "SHINC"  // Sundays and holidays included
	SHEX   WeekendTerm = "SHEX"   // Sundays and holidays excluded
	SSHINC WeekendTerm = "SSHINC" // Saturdays, Sundays and holidays included
	SSHEX  WeekendTerm = "SSHEX"  // Saturdays, Sundays and holidays excluded
)

func ValidWeekendTerm(t WeekendTerm) bool {
	switch t {
	case SHINC, SHEX, SSHINC, SSHEX:
		return true
	}
	return false
}

// ExcludesWeekday reports whether the term excludes the given weekday
// calendar-wise. Holidays are resolved separately via HolidayCalendar.
func (t WeekendTerm) ExcludesWeekday(wd time.Weekday) bool {
	switch t {
	case SHEX:
		return wd == time.Sunday
	case SSHEX:
		return wd == time.Saturday || wd == time.Sunday
	default: // SHINC, SSHINC exclude nothing calendar-wise
		return false
	}
}

// HolidayUsageTerm governs whether an excluded period counts when cargo work
// actually occurred in it.
type HolidayUsageTerm string

const (
	UU  HolidayUsageTerm = "UU"  // Unless Used: excluded period counts if worked
	EIU HolidayUsageTerm = "EIU" // Even If Used: excluded period never counts
)

func ValidHolidayUsageTerm(t HolidayUsageTerm) bool {
	return t == UU || t == EIU
}

// =============================================================================
// SOF EVENT - One interval from the Statement of Facts
// =============================================================================

type EventKind string

const (
	KindWorking   EventKind = "working"
	KindWeather   EventKind = "weather"
	KindWaiting   EventKind = "waiting"
	KindStrike    EventKind = "strike"
	KindHoliday   EventKind = "holiday"
	KindBreakdown EventKind = "breakdown"
)

// KnownKind reports whether the kind is one the resolver models. Unknown
// kinds are not rejected: they resolve as working with a warning, since
// under-counting laytime used is commercially safer than dropping the event.
func KnownKind(k EventKind) bool {
	switch k {
	case KindWorking, KindWeather, KindWaiting, KindStrike, KindHoliday, KindBreakdown:
		return true
	}
	return false
}

// SofEvent is a single interval in the Statement of Facts ledger.
// CountablePercent is the CP-negotiated fraction of the interval that counts
// regardless of calendar status (e.g. "weather 50% laytime to count").
type SofEvent struct {
	ID               string
	From             time.Time
	To               time.Time
	Kind             EventKind
	CountablePercent decimal.Decimal // in [0, 100]
}

func (e SofEvent) Duration() time.Duration { return e.To.Sub(e.From) }

// Hours returns the interval length as decimal hours.
func (e SofEvent) Hours() decimal.Decimal { return hoursBetween(e.From, e.To) }

func hoursBetween(from, to time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(to.Sub(from))).Div(decimal.NewFromInt(int64(time.Hour)))
}

// =============================================================================
// ANNOTATED INTERVAL - Derived, day-split, never persisted
// =============================================================================

// AnnotatedInterval is one sub-interval of a SOF event after day-splitting,
// carrying its exception status and effective countable fraction in [0, 1].
type AnnotatedInterval struct {
	EventID          string
	Kind             EventKind
	From             time.Time
	To               time.Time
	CalendarExcluded bool
	Fraction         decimal.Decimal
}

func (a AnnotatedInterval) Hours() decimal.Decimal { return hoursBetween(a.From, a.To) }

// CountedHours is the interval's contribution to laytime used.
func (a AnnotatedInterval) CountedHours() decimal.Decimal {
	return a.Hours().Mul(a.Fraction)
}

// =============================================================================
// WARNINGS - Non-blocking findings surfaced alongside results
// =============================================================================

type WarningCode string

const (
	WarnZeroRates      WarningCode = "zero_rates"      // CP has allowance but both rates are zero
	WarnUnresolvedKind WarningCode = "unresolved_kind" // event kind not modeled, treated as working
	WarnProvisional    WarningCode = "provisional"     // SOF ends before allowance exhausted
)

type Warning struct {
	Code    WarningCode
	EventID string // empty for terms-level warnings
	Message string
}

// =============================================================================
// SETTLEMENT RESULT - Derived, recomputed on every edit
// =============================================================================

type SettlementOutcome string

const (
	OutcomeDemurrage SettlementOutcome = "demurrage"
	OutcomeDespatch  SettlementOutcome = "despatch"
	OutcomeEven      SettlementOutcome = "even"
)

// SettlementResult is the engine's output. Amount keeps full precision; the
// report layer rounds it to the currency minor unit.
type SettlementResult struct {
	UsedHours    decimal.Decimal
	AllowedHours decimal.Decimal
	Outcome      SettlementOutcome
	Amount       Money

	// TimeBar is the instant the allowance was exhausted, nil while the
	// vessel is still on laytime (incomplete dossier).
	TimeBar     *time.Time
	Provisional bool

	// Intervals is the day-split breakdown the figures were derived from,
	// in chronological order. Consumed by the report layer.
	Intervals []AnnotatedInterval

	Warnings []Warning
}
