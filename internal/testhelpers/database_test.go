package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/analysis"
)

func TestSeedReference(t *testing.T) {
	db := SetupTestDB(t)

	table := SeedReference(t, db)
	assert.Equal(t, "fixture-1", table.Version())

	additives, ultra := table.Len()
	assert.Equal(t, 8, additives)
	assert.Equal(t, 4, ultra)

	citric, ok := table.Lookup("E330")
	require.True(t, ok)
	assert.True(t, citric.Curated)
	assert.Equal(t, "Acidity regulator found naturally in citrus fruit.", citric.ShortDescription)
	assert.Equal(t, analysis.TierLow, citric.Tier)
}

func TestReferenceSnapshotIsValid(t *testing.T) {
	assert.NoError(t, ReferenceSnapshot().Validate())
}

func TestSetupPostgres(t *testing.T) {
	db := SetupPostgres(t, "../../migrations")

	table := SeedReference(t, db)
	assert.Equal(t, "fixture-1", table.Version())
}
