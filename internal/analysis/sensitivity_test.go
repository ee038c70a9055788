package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchSensitivity(t *testing.T) {
	tests := []struct {
		name          string
		rec           AdditiveRecord
		sensitivities SensitivitySet
		wantMatch     bool
		wantLabel     string
	}{
		{
			name:          "E223 inside sulphite range",
			rec:           AdditiveRecord{Name: "Sodium metabisulphite", ENumber: "E223"},
			sensitivities: NewSensitivitySet("sulphites"),
			wantMatch:     true,
			wantLabel:     SensitivitySulphites,
		},
		{
			name:          "E219 just outside sulphite range",
			rec:           AdditiveRecord{Name: "Methyl paraben sodium salt", ENumber: "E219"},
			sensitivities: NewSensitivitySet("sulphites"),
		},
		{
			name:          "E229 just outside sulphite range",
			rec:           AdditiveRecord{Name: "Unknown", ENumber: "E229"},
			sensitivities: NewSensitivitySet("sulfites"),
		},
		{
			name:          "caramel E150d counts as sulphite",
			rec:           AdditiveRecord{Name: "Sulphite ammonia caramel", ENumber: "E150d"},
			sensitivities: NewSensitivitySet("Sulfites"),
			wantMatch:     true,
			wantLabel:     SensitivitySulphites,
		},
		{
			name:          "allergen flag without code",
			rec:           AdditiveRecord{Name: "Preservative blend", SulphiteAllergen: true},
			sensitivities: NewSensitivitySet("sulphites"),
			wantMatch:     true,
			wantLabel:     SensitivitySulphites,
		},
		{
			name:          "MSG by code",
			rec:           AdditiveRecord{Name: "Flavour enhancer", ENumber: "E621"},
			sensitivities: NewSensitivitySet("msg"),
			wantMatch:     true,
			wantLabel:     SensitivityMSG,
		},
		{
			name:          "MSG by name with glutamate keyword",
			rec:           AdditiveRecord{Name: "Monosodium Glutamate"},
			sensitivities: NewSensitivitySet("glutamate"),
			wantMatch:     true,
			wantLabel:     SensitivityMSG,
		},
		{
			name:          "nitrite by range",
			rec:           AdditiveRecord{Name: "Potassium nitrate", ENumber: "E252"},
			sensitivities: NewSensitivitySet("nitrites"),
			wantMatch:     true,
			wantLabel:     SensitivityNitrates,
		},
		{
			name:          "E253 outside nitrate range",
			rec:           AdditiveRecord{Name: "Sodium acetate", ENumber: "E253"},
			sensitivities: NewSensitivitySet("nitrates"),
		},
		{
			name:          "undeclared sensitivity does not match",
			rec:           AdditiveRecord{Name: "Sodium nitrite", ENumber: "E250"},
			sensitivities: NewSensitivitySet("sulphites", "msg"),
		},
		{
			name:          "sulphite wins over nitrate",
			rec:           AdditiveRecord{Name: "Sulphite nitrite mix", ENumber: "E250"},
			sensitivities: NewSensitivitySet("nitrates", "sulphites"),
			wantMatch:     true,
			wantLabel:     SensitivitySulphites,
		},
		{
			name: "empty sensitivity set",
			rec:  AdditiveRecord{Name: "Sodium sulphite", ENumber: "E221"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, label := MatchSensitivity(tt.rec, tt.sensitivities)
			assert.Equal(t, tt.wantMatch, matched)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestNumericRangeAgreesWithLexicalForUsedRanges(t *testing.T) {
	ranges := []struct {
		lo, hi int
	}{
		{220, 228},
		{249, 252},
	}
	for _, r := range ranges {
		for n := r.lo - 5; n <= r.hi+5; n++ {
			code := fmt.Sprintf("e%d", n)
			lexical := inLexicalRange(code, fmt.Sprintf("e%d", r.lo), fmt.Sprintf("e%d", r.hi))
			assert.Equal(t, lexical, inNumericRange(code, r.lo, r.hi), "code %s", code)
		}
	}

	// A letter suffix on the upper bound is where the two disagree: the numeric check keeps
	// E228a inside the sulphite range, the string comparison puts it after "e228".
	assert.True(t, inNumericRange("e228a", 220, 228))
	assert.False(t, inLexicalRange("e228a", "e220", "e228"))
	assert.True(t, inNumericRange("e252a", 249, 252))
	assert.False(t, inLexicalRange("e252a", "e249", "e252"))
	assert.Equal(t, inLexicalRange("e220a", "e220", "e228"), inNumericRange("e220a", 220, 228))
}

func TestLexicalRangeDivergesAcrossDigitLengths(t *testing.T) {
	// Across a digit-length boundary string comparison gives the wrong answer.
	assert.False(t, inLexicalRange("e999", "e990", "e1000"))
	assert.True(t, inNumericRange("e999", 990, 1000))

	assert.True(t, inLexicalRange("e1000", "e100", "e200"))
	assert.False(t, inNumericRange("e1000", 100, 200))
}

func TestNormalizeENumber(t *testing.T) {
	assert.Equal(t, "e621", NormalizeENumber("E621"))
	assert.Equal(t, "e621", NormalizeENumber("E 621"))
	assert.Equal(t, "e150d", NormalizeENumber("E-150D"))
	assert.Equal(t, "e160a(ii)", NormalizeENumber("E160a(ii)"))
	assert.Equal(t, "", NormalizeENumber("salt"))
	assert.Equal(t, "", NormalizeENumber("E14000"))
	assert.Equal(t, "", NormalizeENumber("e400iu"))
	assert.Equal(t, "", NormalizeENumber("vitamin e 400"))
	assert.Equal(t, "", NormalizeENumber("E099"))
	assert.Equal(t, "", NormalizeENumber("E1600"))
	assert.Equal(t, "e1400", NormalizeENumber("E1400"))

	n, suffix, ok := ParseENumber("e150d")
	assert.True(t, ok)
	assert.Equal(t, 150, n)
	assert.Equal(t, "d", suffix)
}

func TestSensitivitySet(t *testing.T) {
	set := NewSensitivitySet(" MSG ", "", "Sulphites")
	assert.Len(t, set, 2)
	assert.True(t, set.HasAny("msg"))
	assert.False(t, set.HasAny("nitrates"))
	assert.Equal(t, []string{"msg", "sulphites"}, set.Sorted())
}
