package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertInvariants(t *testing.T, r Result) {
	t.Helper()
	assert.GreaterOrEqual(t, r.Score, 0)
	assert.LessOrEqual(t, r.Score, 100)
	assert.Equal(t, r.TotalCount, r.HighRiskCount+r.ModerateRiskCount+r.LowRiskCount+r.SafeCount)
	assert.Equal(t, r.TotalCount == 0, r.Grade == GradeNone)
	for _, tier := range AllTiers {
		items, ok := r.ItemsByTier[tier]
		assert.True(t, ok, "missing tier key %s", tier)
		assert.NotNil(t, items)
	}
	assert.Len(t, r.ItemsByTier, len(AllTiers))
	for _, it := range r.Items() {
		assert.NotEmpty(t, it.ShortDescription, "item %s", it.Name)
		require.NotEmpty(t, it.Reasons, "item %s", it.Name)
		assert.NotEmpty(t, it.Reasons[0], "item %s", it.Name)
	}
}

func TestAnalyzeEmptyIngredients(t *testing.T) {
	a := NewAnalyzer(testReference(), DefaultOptions())

	r := a.Analyze(nil, nil)

	assert.Equal(t, 100, r.Score)
	assert.Equal(t, GradeNone, r.Grade)
	assert.Equal(t, 0, r.TotalCount)
	assert.Empty(t, r.PersonalAlerts)
	assert.Equal(t, "test-1", r.ReferenceVersion)
	assertInvariants(t, r)
}

func TestAnalyzeSingleLowItemIsAverage(t *testing.T) {
	a := NewAnalyzer(testReference(), DefaultOptions())

	r := a.Aggregate(DetectionResult{
		Additives: []AdditiveRecord{{Name: "Citric acid", ENumber: "E330", Tier: TierLow, Known: true}},
	}, nil)

	assert.Equal(t, 94, r.Score)
	assert.Equal(t, GradeAverage, r.Grade)
	assert.Equal(t, 1, r.LowRiskCount)
	assertInvariants(t, r)
}

func TestAnalyzeThreeHighItemsIsPoor(t *testing.T) {
	a := NewAnalyzer(testReference(), DefaultOptions())
	high := AdditiveRecord{Name: "Tartrazine", ENumber: "E102", Tier: TierHigh, Known: true}

	r := a.Aggregate(DetectionResult{Additives: []AdditiveRecord{high, high, high}}, nil)

	assert.Equal(t, 30, r.Score)
	assert.Equal(t, GradePoor, r.Grade)
	assert.Len(t, r.ItemsByTier[TierHigh], 3)
	assertInvariants(t, r)
}

func TestAnalyzeSevenSafeItemsIsBelowAverage(t *testing.T) {
	a := NewAnalyzer(testReference(), DefaultOptions())
	safe := make([]AdditiveRecord, 7)
	for i := range safe {
		safe[i] = AdditiveRecord{Name: "Lecithin", ENumber: "E322", Tier: TierNone, Known: true}
	}

	r := a.Aggregate(DetectionResult{Additives: safe}, nil)

	assert.Equal(t, 63, r.Score)
	assert.Equal(t, GradeBelowAverage, r.Grade)
	assert.Equal(t, 7, r.SafeCount)
	assertInvariants(t, r)
}

func TestAnalyzeMixedWithSensitivities(t *testing.T) {
	a := NewAnalyzer(testReference(), DefaultOptions())

	r := a.Analyze(
		[]string{"Sugar", "Glucose syrup", "Maltodextrin", "Sodium nitrite", "Monosodium glutamate", "Lecithin"},
		NewSensitivitySet("msg", "nitrates"),
	)

	assert.Equal(t, 5, r.TotalCount)
	assert.Equal(t, 2, r.HighRiskCount)
	assert.Equal(t, 1, r.ModerateRiskCount)
	assert.Equal(t, 1, r.LowRiskCount)
	assert.Equal(t, 1, r.SafeCount)
	assert.Equal(t, 20, r.Score)
	assert.Equal(t, GradePoor, r.Grade)

	require.Len(t, r.PersonalAlerts, 2)
	assert.Equal(t, PersonalAlert{
		AdditiveName: "Sodium nitrite",
		Code:         "E250",
		Sensitivity:  SensitivityNitrates,
		Reason:       "You've marked nitrates as a sensitivity",
	}, r.PersonalAlerts[0])
	assert.Equal(t, SensitivityMSG, r.PersonalAlerts[1].Sensitivity)
	assert.Equal(t, "You've marked MSG as a sensitivity", r.PersonalAlerts[1].Reason)

	assertInvariants(t, r)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	a := NewAnalyzer(testReference(), DefaultOptions())
	input := []string{"E221", "tartrazine", "modified starch", "yeast extract", "E999"}
	sens := NewSensitivitySet("sulphites")

	assert.Equal(t, a.Analyze(input, sens), a.Analyze(input, sens))
}

func TestAnalyzeFallbackText(t *testing.T) {
	a := NewAnalyzer(testReference(), DefaultOptions())

	r := a.Aggregate(DetectionResult{
		Additives:      []AdditiveRecord{{}},
		UltraProcessed: []UltraProcessedIngredient{{Name: "Mystery paste"}},
	}, nil)

	items := r.ItemsByTier[TierNone]
	require.Len(t, items, 2)
	assert.Equal(t, "Unnamed additive", items[0].Name)
	assert.Equal(t, placeholderDescription, items[0].ShortDescription)
	assert.Equal(t, placeholderUltra, items[1].ShortDescription)
	assert.Equal(t, []string{placeholderReason}, items[1].Reasons)
	assertInvariants(t, r)
}

func TestAnalyzeDescriptionChain(t *testing.T) {
	a := NewAnalyzer(testReference(), DefaultOptions())

	r := a.Analyze([]string{"tartrazine", "sodium nitrite"}, nil)

	high := r.ItemsByTier[TierHigh]
	require.Len(t, high, 2)
	assert.Equal(t, "Synthetic lemon yellow azo dye.", high[0].ShortDescription)
	assert.Contains(t, high[0].Reasons, "May have an adverse effect on activity and attention in children.")
	assert.Equal(t, "Synthetic", high[0].Origin)
	assert.Equal(t, "Preservative used in cured meats.", high[1].ShortDescription)
}

func TestAnalyzeOutOfRangeTierCountsAsSafe(t *testing.T) {
	a := NewAnalyzer(testReference(), DefaultOptions())

	r := a.Aggregate(DetectionResult{Additives: []AdditiveRecord{{Name: "Odd", Tier: RiskTier(9)}}}, nil)

	assert.Equal(t, 1, r.SafeCount)
	assertInvariants(t, r)
}

func TestAnalyzeVitaminFlagDoesNotExemptFromScoring(t *testing.T) {
	a := NewAnalyzer(testReference(), DefaultOptions())

	r := a.Analyze([]string{"ascorbic acid"}, nil)

	require.Len(t, r.ItemsByTier[TierNone], 1)
	assert.True(t, r.ItemsByTier[TierNone][0].IsVitaminOrMineral)
	assert.Equal(t, 98, r.Score)
	assert.Equal(t, GradeAverage, r.Grade)
}

func TestResultJSONKeepsAllTiers(t *testing.T) {
	a := NewAnalyzer(testReference(), DefaultOptions())
	r := a.Analyze([]string{"E221"}, NewSensitivitySet("sulphites"))

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items_by_tier":{"high":[]`)

	var back Result
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)

	var sparse Result
	require.NoError(t, json.Unmarshal([]byte(`{"score":100,"grade":"none"}`), &sparse))
	assertInvariants(t, sparse)
}

func TestBadge(t *testing.T) {
	b := Badge(Result{Grade: GradeBelowAverage, TotalCount: 4, HighRiskCount: 1, ModerateRiskCount: 1, LowRiskCount: 2})
	assert.Equal(t, 2, b.ToWatch)
	assert.Equal(t, "4 additives, 2 to watch", b.Caption)
	assert.Equal(t, "Below average", b.Display.Label)

	assert.Equal(t, "No additives", Badge(Result{}).Caption)
	assert.Equal(t, "High risk", TierDisplay(TierHigh).Label)
}
