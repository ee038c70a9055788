package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func additiveNames(recs []AdditiveRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Name)
	}
	return out
}

func ultraNames(us []UltraProcessedIngredient) []string {
	out := make([]string, 0, len(us))
	for _, u := range us {
		out = append(out, u.Name)
	}
	return out
}

func TestDetectByCodeAndName(t *testing.T) {
	d := NewDetector(testReference(), DefaultOptions())

	res := d.Detect([]string{"Water", "Salt (E621)", "Lecithin (E322)", "Colour: tartrazine"})

	assert.Equal(t, []string{"Monosodium glutamate", "Lecithin", "Tartrazine"}, additiveNames(res.Additives))
	assert.Empty(t, res.UltraProcessed)
}

func TestDetectEmptyInput(t *testing.T) {
	d := NewDetector(testReference(), DefaultOptions())

	assert.True(t, d.Detect(nil).Empty())
	assert.True(t, d.Detect([]string{}).Empty())
	assert.True(t, d.Detect([]string{"", "  "}).Empty())
	assert.True(t, d.DetectText("").Empty())
}

func TestDetectNilReference(t *testing.T) {
	d := NewDetector(nil, DefaultOptions())
	assert.True(t, d.Detect([]string{"E621"}).Empty())
}

func TestDetectUltraProcessed(t *testing.T) {
	d := NewDetector(testReference(), DefaultOptions())

	res := d.Detect([]string{"MALTODEXTRIN", "modified starch", "glucose syrup", "yeast extract"})

	assert.Empty(t, res.Additives)
	assert.Equal(t, []string{"Maltodextrin", "Modified starch", "Glucose syrup", "Yeast extract"}, ultraNames(res.UltraProcessed))
}

func TestDetectKeepsRepeatedMentions(t *testing.T) {
	d := NewDetector(testReference(), DefaultOptions())

	res := d.Detect([]string{"E621", "flavour enhancer: monosodium glutamate", "msg"})
	assert.Len(t, res.Additives, 3)
}

func TestDetectOneEntryPerIngredientString(t *testing.T) {
	d := NewDetector(testReference(), DefaultOptions())

	// Name and code both match the same reference entry.
	res := d.Detect([]string{"monosodium glutamate (E621)"})
	assert.Len(t, res.Additives, 1)
}

func TestDetectDedupeOption(t *testing.T) {
	opts := DefaultOptions()
	opts.Dedupe = true
	d := NewDetector(testReference(), opts)

	res := d.Detect([]string{"E621", "monosodium glutamate", "maltodextrin", "Maltodextrin"})
	assert.Equal(t, []string{"Monosodium glutamate"}, additiveNames(res.Additives))
	assert.Equal(t, []string{"Maltodextrin"}, ultraNames(res.UltraProcessed))
}

func TestDetectUnlistedCode(t *testing.T) {
	d := NewDetector(testReference(), DefaultOptions())

	res := d.Detect([]string{"stabiliser (E999)"})
	require.Len(t, res.Additives, 1)
	assert.Equal(t, "E999", res.Additives[0].Name)
	assert.False(t, res.Additives[0].Known)
	assert.Equal(t, TierNone, res.Additives[0].Tier)
}

func TestDetectIsStable(t *testing.T) {
	d := NewDetector(testReference(), DefaultOptions())
	input := []string{"sodium nitrite", "E221", "soy lecithin", "glucose syrup"}

	first := d.Detect(input)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, d.Detect(input))
	}
}

func TestSplitIngredients(t *testing.T) {
	got := SplitIngredients("Sugar, emulsifiers (E471, soy lecithin); salt, colour [E102, E129].")
	assert.Equal(t, []string{"Sugar", "emulsifiers (E471, soy lecithin)", "salt", "colour [E102, E129]"}, got)
	assert.Nil(t, SplitIngredients("   "))
}

func TestDetectText(t *testing.T) {
	d := NewDetector(testReference(), DefaultOptions())

	res := d.DetectText("Pork, salt, preservative (sodium nitrite), antioxidant: ascorbic acid")
	assert.Equal(t, []string{"Sodium nitrite", "Ascorbic acid"}, additiveNames(res.Additives))
}

func TestDetectIgnoresCodeLookalikes(t *testing.T) {
	d := NewDetector(testReference(), DefaultOptions())
	a := NewAnalyzer(testReference(), DefaultOptions())

	for _, label := range []string{
		"wheat flour, vitamin e 400iu",
		"vitamin e 100 iu",
		"salt e14000",
		"vitamin E-300",
		"sunflower oil, e 250 mg",
	} {
		t.Run(label, func(t *testing.T) {
			assert.True(t, d.DetectText(label).Empty())

			res := a.Analyze(SplitIngredients(label), nil)
			assert.Equal(t, 0, res.TotalCount)
			assert.Equal(t, 100, res.Score)
			assert.Equal(t, GradeNone, res.Grade)
		})
	}
}

func TestDetectCodeNeedsTrailingBoundary(t *testing.T) {
	d := NewDetector(testReference(), DefaultOptions())

	res := d.Detect([]string{"E621x", "e2509", "E221.", "(e102)", "E250-E300"})
	assert.Equal(t, []string{"Sodium sulphite", "Tartrazine", "Sodium nitrite", "Ascorbic acid"}, additiveNames(res.Additives))
}

type lookupCountingRef struct {
	*staticRef
	lookups []string
}

func (r *lookupCountingRef) Lookup(key string) (AdditiveRecord, bool) {
	r.lookups = append(r.lookups, key)
	return r.staticRef.Lookup(key)
}

func TestDetectResolvesCodesThroughLookup(t *testing.T) {
	ref := &lookupCountingRef{staticRef: testReference()}
	d := NewDetector(ref, DefaultOptions())

	res := d.Detect([]string{"flavour enhancer E 621", "E1442"})

	assert.Equal(t, []string{"e621", "e1442"}, ref.lookups)
	require.Len(t, res.Additives, 2)
	assert.Equal(t, "Monosodium glutamate", res.Additives[0].Name)
	assert.True(t, res.Additives[0].Known)
	assert.False(t, res.Additives[1].Known)
}
