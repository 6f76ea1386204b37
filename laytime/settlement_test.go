/*
settlement_test.go - End-to-end tests for the settlement engine

PURPOSE:
  These tests document the engine's end-to-end behavior: the concrete
  chartering scenarios (demurrage, despatch, even, UU/EIU divergence) plus
  the algebraic properties the settlement must satisfy (monotonicity,
  pro-ration linearity, idempotence).

ORGANIZATION:
  1. Concrete scenarios - full settle() runs over realistic dossiers
  2. Properties - invariants checked across paired inputs
  3. Time bar - exhaustion instant interpolation

Each test carries GIVEN/WHEN/THEN comments describing the scenario.
*/
package laytime_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seafix/laytime-engine/laytime"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// commencement is Monday 2025-03-03 00:00 UTC. The following weekend is
// Saturday 2025-03-08 / Sunday 2025-03-09.
var commencement = time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

func usd(v float64) laytime.Money { return laytime.NewMoney(v, laytime.CurrencyUSD) }

func testTerms(allowedHours float64, wt laytime.WeekendTerm, ht laytime.HolidayUsageTerm) laytime.CharterPartyTerms {
	return laytime.CharterPartyTerms{
		AllowedHours:        decimal.NewFromFloat(allowedHours),
		Commencement:        commencement,
		DemurrageRatePerDay: usd(24000),
		DespatchRatePerDay:  usd(12000),
		WeekendTerm:         wt,
		HolidayUsageTerm:    ht,
	}
}

func event(id string, from time.Time, hours float64, kind laytime.EventKind, percent float64) laytime.SofEvent {
	return laytime.SofEvent{
		ID:               id,
		From:             from,
		To:               from.Add(time.Duration(hours * float64(time.Hour))),
		Kind:             kind,
		CountablePercent: decimal.NewFromFloat(percent),
	}
}

// chainLedger builds a contiguous ledger starting at the given instant.
func chainLedger(t *testing.T, start time.Time, events ...laytime.SofEvent) *laytime.Ledger {
	t.Helper()
	ledger := laytime.NewLedger(start)
	for _, e := range events {
		require.NoError(t, ledger.AddEvent(e))
	}
	return ledger
}

func hoursEqual(t *testing.T, expected float64, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.NewFromFloat(expected).Equal(actual),
		"expected %v hours, got %s", expected, actual)
}

// =============================================================================
// CONCRETE SCENARIOS
// =============================================================================

func TestSettle_Demurrage_AllowanceExceeded(t *testing.T) {
	// GIVEN: Allowance 72h, one WORKING event of 80h at 100%, SHINC, UU
	// WHEN: Settling
	// THEN: usedHours=80, demurrage for 8h = (8/24) * daily rate

	terms := testTerms(72, laytime.SHINC, laytime.UU)
	ledger := chainLedger(t, commencement,
		event("e1", commencement, 80, laytime.KindWorking, 100),
	)

	result, err := laytime.Settle(terms, ledger, laytime.EmptyCalendar{})
	require.NoError(t, err)

	hoursEqual(t, 80, result.UsedHours)
	assert.Equal(t, laytime.OutcomeDemurrage, result.Outcome)
	assert.True(t, usd(8000).Value.Equal(result.Amount.Value), "expected USD 8000, got %s", result.Amount)
	assert.False(t, result.Provisional, "time bar was reached")
	require.NotNil(t, result.TimeBar)
	assert.Equal(t, commencement.Add(72*time.Hour), *result.TimeBar)
}

func TestSettle_Despatch_PartialCountingWeather(t *testing.T) {
	// GIVEN: Allowance 48h, 24h WORKING at 100% then 24h WEATHER at 50%
	// WHEN: Settling
	// THEN: usedHours = 24 + 12 = 36, despatch for 12h = (12/24) * daily rate

	terms := testTerms(48, laytime.SHINC, laytime.UU)
	ledger := chainLedger(t, commencement,
		event("work", commencement, 24, laytime.KindWorking, 100),
		event("weather", commencement.Add(24*time.Hour), 24, laytime.KindWeather, 50),
	)

	result, err := laytime.Settle(terms, ledger, laytime.EmptyCalendar{})
	require.NoError(t, err)

	hoursEqual(t, 36, result.UsedHours)
	assert.Equal(t, laytime.OutcomeDespatch, result.Outcome)
	assert.True(t, usd(6000).Value.Equal(result.Amount.Value), "expected USD 6000, got %s", result.Amount)
	assert.True(t, result.Provisional, "allowance never exhausted")
	assert.Nil(t, result.TimeBar)
}

func TestSettle_SundayWork_UU_Counts(t *testing.T) {
	// GIVEN: Allowance 24h, one 24h WORKING event entirely on a Sunday,
	//        SHEX + UU (exclusion waived where the vessel was worked)
	// WHEN: Settling
	// THEN: the Sunday counts: usedHours=24, outcome EVEN

	sunday := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	terms := testTerms(24, laytime.SHEX, laytime.UU)
	terms.Commencement = sunday
	ledger := chainLedger(t, sunday,
		event("sun", sunday, 24, laytime.KindWorking, 100),
	)

	result, err := laytime.Settle(terms, ledger, laytime.EmptyCalendar{})
	require.NoError(t, err)

	hoursEqual(t, 24, result.UsedHours)
	assert.Equal(t, laytime.OutcomeEven, result.Outcome)
	assert.True(t, result.Amount.IsZero())
	assert.False(t, result.Provisional)
}

func TestSettle_SundayWork_EIU_NeverCounts(t *testing.T) {
	// GIVEN: Same dossier as above but EIU
	// WHEN: Settling
	// THEN: the Sunday never counts: usedHours=0, despatch for the full day

	sunday := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	terms := testTerms(24, laytime.SHEX, laytime.EIU)
	terms.Commencement = sunday
	ledger := chainLedger(t, sunday,
		event("sun", sunday, 24, laytime.KindWorking, 100),
	)

	result, err := laytime.Settle(terms, ledger, laytime.EmptyCalendar{})
	require.NoError(t, err)

	hoursEqual(t, 0, result.UsedHours)
	assert.Equal(t, laytime.OutcomeDespatch, result.Outcome)
	assert.True(t, usd(12000).Value.Equal(result.Amount.Value), "full despatch day, got %s", result.Amount)
}

func TestSettle_LedgerGap_BlocksCalculation(t *testing.T) {
	// GIVEN: A ledger built from persisted events with a 2h gap
	// WHEN: Rebuilding the ledger
	// THEN: GapOrOverlapError names the conflicting pair; calculation blocked

	_, err := laytime.LedgerFromEvents(commencement, []laytime.SofEvent{
		event("a", commencement, 10, laytime.KindWorking, 100),
		event("b", commencement.Add(12*time.Hour), 10, laytime.KindWorking, 100),
	})

	require.Error(t, err)
	var gapErr *laytime.GapOrOverlapError
	require.ErrorAs(t, err, &gapErr)
	assert.Equal(t, "a", gapErr.PrevID)
	assert.Equal(t, "b", gapErr.NextID)
	assert.False(t, gapErr.Overlap)
	assert.True(t, laytime.IsClientError(err))
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestSettle_Monotonicity_RaisingPercentNeverLowersUsage(t *testing.T) {
	// GIVEN: Two ledgers differing only by one event's countable percent
	// WHEN: Settling both
	// THEN: usedHours is non-decreasing in the percent

	terms := testTerms(48, laytime.SHINC, laytime.UU)
	for _, pair := range [][2]float64{{0, 25}, {25, 50}, {50, 100}} {
		low := chainLedger(t, commencement,
			event("work", commencement, 24, laytime.KindWorking, 100),
			event("weather", commencement.Add(24*time.Hour), 12, laytime.KindWeather, pair[0]),
		)
		high := chainLedger(t, commencement,
			event("work", commencement, 24, laytime.KindWorking, 100),
			event("weather", commencement.Add(24*time.Hour), 12, laytime.KindWeather, pair[1]),
		)

		lowResult, err := laytime.Settle(terms, low, laytime.EmptyCalendar{})
		require.NoError(t, err)
		highResult, err := laytime.Settle(terms, high, laytime.EmptyCalendar{})
		require.NoError(t, err)

		assert.True(t, highResult.UsedHours.GreaterThanOrEqual(lowResult.UsedHours),
			"raising percent %v -> %v lowered usage %s -> %s",
			pair[0], pair[1], lowResult.UsedHours, highResult.UsedHours)
	}
}

func TestSettle_ZeroSumBoundary_ExactExhaustionIsEven(t *testing.T) {
	// GIVEN: usedHours exactly equals allowedHours
	// WHEN: Settling
	// THEN: outcome EVEN, amount 0

	terms := testTerms(30, laytime.SHINC, laytime.UU)
	ledger := chainLedger(t, commencement,
		event("e1", commencement, 30, laytime.KindWorking, 100),
	)

	result, err := laytime.Settle(terms, ledger, laytime.EmptyCalendar{})
	require.NoError(t, err)

	assert.Equal(t, laytime.OutcomeEven, result.Outcome)
	assert.True(t, result.Amount.IsZero())
}

func TestSettle_ProRationLinearity_DoublingDeltaDoublesAmount(t *testing.T) {
	// GIVEN: Two demurrage dossiers where the second overruns twice as long
	// WHEN: Settling both
	// THEN: the second amount is exactly double the first

	terms := testTerms(24, laytime.SHINC, laytime.UU)
	single := chainLedger(t, commencement,
		event("e1", commencement, 30, laytime.KindWorking, 100), // delta 6h
	)
	double := chainLedger(t, commencement,
		event("e1", commencement, 36, laytime.KindWorking, 100), // delta 12h
	)

	singleResult, err := laytime.Settle(terms, single, laytime.EmptyCalendar{})
	require.NoError(t, err)
	doubleResult, err := laytime.Settle(terms, double, laytime.EmptyCalendar{})
	require.NoError(t, err)

	assert.True(t, singleResult.Amount.Value.Mul(decimal.NewFromInt(2)).Equal(doubleResult.Amount.Value),
		"expected exact doubling: %s vs %s", singleResult.Amount, doubleResult.Amount)
}

func TestSettle_UUvsEIU_SwitchingToUUNeverDecreasesUsage(t *testing.T) {
	// GIVEN: Identical ledger with one WORKING event on an excluded Sunday
	// WHEN: Switching holidayUsageTerm from EIU to UU
	// THEN: usedHours increases (never decreases)

	saturday := time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC)
	build := func(ht laytime.HolidayUsageTerm) (laytime.CharterPartyTerms, *laytime.Ledger) {
		terms := testTerms(72, laytime.SHEX, ht)
		terms.Commencement = saturday
		ledger := chainLedger(t, saturday,
			event("sat", saturday, 24, laytime.KindWorking, 100),
			event("sun", saturday.Add(24*time.Hour), 24, laytime.KindWorking, 100),
			event("mon", saturday.Add(48*time.Hour), 24, laytime.KindWorking, 100),
		)
		return terms, ledger
	}

	eiuTerms, eiuLedger := build(laytime.EIU)
	uuTerms, uuLedger := build(laytime.UU)

	eiuResult, err := laytime.Settle(eiuTerms, eiuLedger, laytime.EmptyCalendar{})
	require.NoError(t, err)
	uuResult, err := laytime.Settle(uuTerms, uuLedger, laytime.EmptyCalendar{})
	require.NoError(t, err)

	assert.True(t, uuResult.UsedHours.GreaterThan(eiuResult.UsedHours),
		"UU %s should exceed EIU %s", uuResult.UsedHours, eiuResult.UsedHours)
	// Under SHEX only the Sunday is excluded: EIU counts 48h, UU counts 72h.
	hoursEqual(t, 48, eiuResult.UsedHours)
	hoursEqual(t, 72, uuResult.UsedHours)
}

func TestSettle_Idempotence_SameInputsSameResult(t *testing.T) {
	// GIVEN: An unchanged dossier
	// WHEN: Settling twice
	// THEN: results are identical

	terms := testTerms(48, laytime.SSHEX, laytime.UU)
	ledger := chainLedger(t, commencement,
		event("e1", commencement, 30, laytime.KindWorking, 100),
		event("e2", commencement.Add(30*time.Hour), 20, laytime.KindWaiting, 100),
	)

	first, err := laytime.Settle(terms, ledger, laytime.EmptyCalendar{})
	require.NoError(t, err)
	second, err := laytime.Settle(terms, ledger, laytime.EmptyCalendar{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// =============================================================================
// TIME BAR INTERPOLATION
// =============================================================================

func TestSettle_TimeBar_InterpolatedWithinPartialCountingInterval(t *testing.T) {
	// GIVEN: Allowance 26h: 24h WORKING at 100%, then WEATHER at 50%.
	//        The remaining 2 countable hours take 4 clock hours at 50%.
	// WHEN: Settling
	// THEN: time bar is 28 clock hours after commencement

	terms := testTerms(26, laytime.SHINC, laytime.UU)
	ledger := chainLedger(t, commencement,
		event("work", commencement, 24, laytime.KindWorking, 100),
		event("weather", commencement.Add(24*time.Hour), 24, laytime.KindWeather, 50),
	)

	result, err := laytime.Settle(terms, ledger, laytime.EmptyCalendar{})
	require.NoError(t, err)

	require.NotNil(t, result.TimeBar)
	assert.Equal(t, commencement.Add(28*time.Hour), *result.TimeBar)
}

func TestSettle_ZeroAllowance_TimeBarAtCommencement(t *testing.T) {
	// GIVEN: A zero-hour allowance
	// WHEN: Settling
	// THEN: the time bar is the commencement instant itself

	terms := testTerms(0, laytime.SHINC, laytime.UU)
	ledger := chainLedger(t, commencement,
		event("e1", commencement, 12, laytime.KindWorking, 100),
	)

	result, err := laytime.Settle(terms, ledger, laytime.EmptyCalendar{})
	require.NoError(t, err)

	require.NotNil(t, result.TimeBar)
	assert.Equal(t, commencement, *result.TimeBar)
	assert.Equal(t, laytime.OutcomeDemurrage, result.Outcome)
}

func TestSettle_EventsBeforeCommencement_Discarded(t *testing.T) {
	// GIVEN: An event straddling commencement and one wholly before it
	// WHEN: Settling
	// THEN: only the portion from commencement onward counts

	terms := testTerms(48, laytime.SHINC, laytime.UU)
	ledger := laytime.NewLedger(commencement)
	require.NoError(t, ledger.AddEvent(event("before", commencement.Add(-12*time.Hour), 6, laytime.KindWaiting, 100)))
	require.NoError(t, ledger.AddEvent(event("straddle", commencement.Add(-6*time.Hour), 18, laytime.KindWorking, 100)))

	result, err := laytime.Settle(terms, ledger, laytime.EmptyCalendar{})
	require.NoError(t, err)

	hoursEqual(t, 12, result.UsedHours)
}

func TestSettle_ZeroRateTerms_WarnsButSettles(t *testing.T) {
	// GIVEN: A legal CP with an allowance but zero daily rates
	// WHEN: Settling
	// THEN: the calculation proceeds with a zero-rates warning

	terms := testTerms(24, laytime.SHINC, laytime.UU)
	terms.DemurrageRatePerDay = usd(0)
	terms.DespatchRatePerDay = usd(0)
	ledger := chainLedger(t, commencement,
		event("e1", commencement, 30, laytime.KindWorking, 100),
	)

	result, err := laytime.Settle(terms, ledger, laytime.EmptyCalendar{})
	require.NoError(t, err)

	assert.True(t, result.Amount.IsZero())
	codes := warningCodes(result.Warnings)
	assert.Contains(t, codes, laytime.WarnZeroRates)
}

func warningCodes(warnings []laytime.Warning) []laytime.WarningCode {
	codes := make([]laytime.WarningCode, 0, len(warnings))
	for _, w := range warnings {
		codes = append(codes, w.Code)
	}
	return codes
}
