package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seafix/laytime-engine/laytime"
	"github.com/seafix/laytime-engine/report"
)

func demoStatement(t *testing.T) report.Statement {
	t.Helper()
	commencement := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	terms := laytime.CharterPartyTerms{
		AllowedHours:        decimal.NewFromInt(72),
		Commencement:        commencement,
		DemurrageRatePerDay: laytime.NewMoney(24000, laytime.CurrencyUSD),
		DespatchRatePerDay:  laytime.NewMoney(12000, laytime.CurrencyUSD),
		WeekendTerm:         laytime.SHINC,
		HolidayUsageTerm:    laytime.UU,
	}
	ledger := laytime.NewLedger(commencement)
	require.NoError(t, ledger.AddEvent(laytime.SofEvent{
		ID: "e1", From: commencement, To: commencement.Add(80 * time.Hour),
		Kind: laytime.KindWorking, CountablePercent: decimal.NewFromInt(100),
	}))
	result, err := laytime.Settle(terms, ledger, laytime.EmptyCalendar{})
	require.NoError(t, err)

	return report.Statement{
		DossierName: "MV Test Voyage 42",
		Port:        "SGSIN",
		Terms:       terms,
		Result:      result,
	}
}

func TestWriteText_ContainsBreakdownAndRoundedAmount(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, demoStatement(t)))

	out := buf.String()
	assert.Contains(t, out, "MV Test Voyage 42")
	assert.Contains(t, out, "SGSIN")
	assert.Contains(t, out, "DEMURRAGE")
	assert.Contains(t, out, "USD 8000.00", "amount rounded to the minor unit")
	assert.Contains(t, out, "80.00")
	assert.Contains(t, out, "Laytime expired")
	assert.NotContains(t, out, "PROVISIONAL")
}

func TestWriteText_ProvisionalFlagShown(t *testing.T) {
	s := demoStatement(t)
	s.Result.Provisional = true
	s.Result.TimeBar = nil

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, s))
	assert.Contains(t, buf.String(), "PROVISIONAL")
}

func TestBuildPDF_ProducesValidDocument(t *testing.T) {
	data, err := report.BuildPDF(demoStatement(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "PDF header present")
	assert.Greater(t, len(data), 500)
}
