package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seafix/laytime-engine/laytime"
)

const sampleDossier = `name: MV Halcyon / Singapore
port: SGSIN
terms:
  allowed_days: 3
  commencement: 2025-03-03T00:00:00Z
  demurrage_rate_per_day: 24000
  despatch_rate_per_day: 12000
  currency: USD
  weekend_term: SHINC
  holiday_usage_term: UU
events:
  - id: ev-1
    from: 2025-03-03T00:00:00Z
    to: 2025-03-07T00:00:00Z
    kind: working
    countable_percent: 100
`

func writeDossier(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dossier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDossier_RoundTripAndSettle(t *testing.T) {
	// GIVEN: A well-formed dossier file
	path := writeDossier(t, sampleDossier)

	// WHEN: Loading and settling it
	df, terms, ledger, err := loadDossier(path)
	require.NoError(t, err)

	result, err := laytime.Settle(terms, ledger, nil)
	require.NoError(t, err)

	// THEN: The file's numbers drive the settlement
	assert.Equal(t, "MV Halcyon / Singapore", df.Name)
	assert.Equal(t, "SGSIN", df.Port)
	assert.Equal(t, laytime.OutcomeDemurrage, result.Outcome)
	assert.True(t, result.UsedHours.Equal(decimal.NewFromInt(96)), "used %s", result.UsedHours)
}

func TestLoadDossier_GapRejected(t *testing.T) {
	// GIVEN: A dossier whose second event leaves a gap
	bad := sampleDossier + `  - id: ev-2
    from: 2025-03-07T03:00:00Z
    to: 2025-03-08T00:00:00Z
    kind: working
    countable_percent: 100
`
	path := writeDossier(t, bad)

	// WHEN: Loading it
	_, _, _, err := loadDossier(path)

	// THEN: The contiguity failure surfaces at load time
	require.Error(t, err)
	assert.ErrorIs(t, err, laytime.ErrLedgerGapOrOverlap)
}

func TestLoadDossier_MissingFile(t *testing.T) {
	_, _, _, err := loadDossier(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
