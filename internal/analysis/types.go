package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RiskTier is the ordinal risk bucket an analyzed item falls into.
type RiskTier int

const (
	TierNone RiskTier = iota
	TierLow
	TierModerate
	TierHigh
)

// AllTiers lists every tier from highest to lowest risk.
var AllTiers = []RiskTier{TierHigh, TierModerate, TierLow, TierNone}

func (t RiskTier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierLow:
		return "low"
	case TierModerate:
		return "moderate"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseRiskTier converts a stored tier label into a RiskTier.
// Reference tables use a few spellings for the same tier.
func ParseRiskTier(s string) (RiskTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "safe", "no risk", "no_risk":
		return TierNone, nil
	case "low", "low risk":
		return TierLow, nil
	case "moderate", "medium", "moderate risk":
		return TierModerate, nil
	case "high", "high risk":
		return TierHigh, nil
	default:
		return TierNone, fmt.Errorf("invalid risk tier: %q", s)
	}
}

func (t RiskTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *RiskTier) UnmarshalText(b []byte) error {
	v, err := ParseRiskTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Grade is the presentation quantization of a score. It never feeds back into scoring.
type Grade int

const (
	GradeNone Grade = iota
	GradeAverage
	GradeBelowAverage
	GradePoor
)

func (g Grade) String() string {
	switch g {
	case GradeNone:
		return "none"
	case GradeAverage:
		return "average"
	case GradeBelowAverage:
		return "below_average"
	case GradePoor:
		return "poor"
	default:
		return "unknown"
	}
}

func (g Grade) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Grade) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none":
		*g = GradeNone
	case "average":
		*g = GradeAverage
	case "below_average":
		*g = GradeBelowAverage
	case "poor":
		*g = GradePoor
	default:
		return fmt.Errorf("invalid grade: %q", string(b))
	}
	return nil
}

// Origin describes where an additive comes from.
type Origin string

const (
	OriginNatural   Origin = "natural"
	OriginSynthetic Origin = "synthetic"
	OriginBoth      Origin = "both"
	OriginUnknown   Origin = "unknown"
)

// ParseOrigin normalises free-text origin labels. Unrecognised values map to OriginUnknown.
func ParseOrigin(s string) Origin {
	l := strings.ToLower(strings.TrimSpace(s))
	switch {
	case l == "":
		return OriginUnknown
	case strings.Contains(l, "both"), strings.Contains(l, "/"):
		return OriginBoth
	case strings.Contains(l, "synthetic"), strings.Contains(l, "artificial"):
		return OriginSynthetic
	case strings.Contains(l, "natural"):
		return OriginNatural
	default:
		return OriginUnknown
	}
}

// AdditiveRecord is one entry of the additive reference table.
type AdditiveRecord struct {
	Name               string   `json:"name"`
	ENumber            string   `json:"e_number,omitempty"`
	Synonyms           []string `json:"synonyms,omitempty"`
	Tier               RiskTier `json:"tier"`
	Origin             Origin   `json:"origin"`
	ChildWarning       bool     `json:"child_warning"`
	SulphiteAllergen   bool     `json:"sulphite_allergen"`
	ShortDescription   string   `json:"short_description,omitempty"`
	FullDescription    string   `json:"full_description,omitempty"`
	Summary            string   `json:"summary,omitempty"`
	TypicalUses        string   `json:"typical_uses,omitempty"`
	IsVitaminOrMineral bool     `json:"is_vitamin_or_mineral"`
	Curated            bool     `json:"curated"` // at least one field came from the override table
	Known              bool     `json:"known"`   // false for a record synthesised for an unlisted code
}

// UltraProcessedIngredient is one entry of the ultra-processed ingredient table.
type UltraProcessedIngredient struct {
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	NovaGroup         int      `json:"nova_group"`
	ProcessingPenalty int      `json:"processing_penalty"`
	Concerns          string   `json:"concerns,omitempty"`
	WhatItIs          string   `json:"what_it_is,omitempty"`
	WhyUsed           string   `json:"why_used,omitempty"`
	Synonyms          []string `json:"synonyms,omitempty"`
}

// DetectionResult is the raw output of scanning ingredient text.
type DetectionResult struct {
	Additives      []AdditiveRecord
	UltraProcessed []UltraProcessedIngredient
}

// Empty reports whether nothing was detected.
func (d DetectionResult) Empty() bool {
	return len(d.Additives) == 0 && len(d.UltraProcessed) == 0
}

// ItemKind distinguishes the two detection sources.
type ItemKind string

const (
	KindAdditive       ItemKind = "additive"
	KindUltraProcessed ItemKind = "ultra_processed"
)

// AnalyzedItem is a detected additive or ultra-processed ingredient in a common shape.
type AnalyzedItem struct {
	Name               string   `json:"name"`
	Code               string   `json:"code"`
	Kind               ItemKind `json:"kind"`
	Tier               RiskTier `json:"tier"`
	ShortDescription   string   `json:"short_description"`
	Origin             string   `json:"origin"`
	Reasons            []string `json:"reasons"`
	AffectsSensitivity bool     `json:"affects_sensitivity"`
	SensitivityName    string   `json:"sensitivity_name,omitempty"`
	IsVitaminOrMineral bool     `json:"is_vitamin_or_mineral"`
}

// PersonalAlert flags an item that matches one of the user's declared sensitivities.
type PersonalAlert struct {
	AdditiveName string `json:"additive_name"`
	Code         string `json:"code"`
	Sensitivity  string `json:"sensitivity"`
	Reason       string `json:"reason"`
}

// TierCounts holds the per-tier tallies the score is computed from.
type TierCounts struct {
	High     int `json:"high"`
	Moderate int `json:"moderate"`
	Low      int `json:"low"`
	Safe     int `json:"safe"`
}

// Total returns the sum of all tiers.
func (c TierCounts) Total() int {
	return c.High + c.Moderate + c.Low + c.Safe
}

func (c *TierCounts) add(t RiskTier) {
	switch t {
	case TierHigh:
		c.High++
	case TierModerate:
		c.Moderate++
	case TierLow:
		c.Low++
	default:
		c.Safe++
	}
}

// Result is the immutable output of one analysis.
type Result struct {
	Score             int                         `json:"score"`
	Grade             Grade                       `json:"grade"`
	TotalCount        int                         `json:"total_count"`
	HighRiskCount     int                         `json:"high_risk_count"`
	ModerateRiskCount int                         `json:"moderate_risk_count"`
	LowRiskCount      int                         `json:"low_risk_count"`
	SafeCount         int                         `json:"safe_count"`
	PersonalAlerts    []PersonalAlert             `json:"personal_alerts"`
	ItemsByTier       map[RiskTier][]AnalyzedItem `json:"items_by_tier"`
	ReferenceVersion  string                      `json:"reference_version"`
}

// HasAdditives reports whether anything was detected.
func (r Result) HasAdditives() bool {
	return r.TotalCount > 0
}

// Counts returns the tier tallies of the result.
func (r Result) Counts() TierCounts {
	return TierCounts{
		High:     r.HighRiskCount,
		Moderate: r.ModerateRiskCount,
		Low:      r.LowRiskCount,
		Safe:     r.SafeCount,
	}
}

// Items returns all analyzed items ordered from highest to lowest tier.
func (r Result) Items() []AnalyzedItem {
	out := make([]AnalyzedItem, 0, r.TotalCount)
	for _, t := range AllTiers {
		out = append(out, r.ItemsByTier[t]...)
	}
	return out
}

// UnmarshalJSON restores the invariant that every tier key is present.
func (r *Result) UnmarshalJSON(data []byte) error {
	type plain Result
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.ItemsByTier == nil {
		p.ItemsByTier = make(map[RiskTier][]AnalyzedItem, len(AllTiers))
	}
	for _, t := range AllTiers {
		if p.ItemsByTier[t] == nil {
			p.ItemsByTier[t] = []AnalyzedItem{}
		}
	}
	if p.PersonalAlerts == nil {
		p.PersonalAlerts = []PersonalAlert{}
	}
	*r = Result(p)
	return nil
}
