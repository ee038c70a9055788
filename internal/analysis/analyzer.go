package analysis

import (
	"fmt"
	"strings"
)

// Generic text used when the reference tables carry nothing for an item.
const (
	placeholderDescription = "Food additive used in processed foods."
	placeholderUltra       = "Industrially processed ingredient."
	placeholderReason      = "Detected in the ingredient list."
)

// Analyzer runs detection and aggregation against one reference snapshot.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	ref      Reference
	detector *Detector
}

// NewAnalyzer builds an analyzer over ref.
func NewAnalyzer(ref Reference, opts Options) *Analyzer {
	return &Analyzer{
		ref:      ref,
		detector: NewDetector(ref, opts),
	}
}

// Version returns the reference version results are stamped with.
func (a *Analyzer) Version() string {
	if a.ref == nil {
		return ""
	}
	return a.ref.Version()
}

// Analyze detects and scores a list of ingredient strings.
func (a *Analyzer) Analyze(ingredients []string, sensitivities SensitivitySet) Result {
	return a.Aggregate(a.detector.Detect(ingredients), sensitivities)
}

// Aggregate turns a detection result into a scored Result. It never fails.
func (a *Analyzer) Aggregate(det DetectionResult, sensitivities SensitivitySet) Result {
	items := make([]AnalyzedItem, 0, len(det.Additives)+len(det.UltraProcessed))
	for _, rec := range det.Additives {
		items = append(items, additiveItem(rec, sensitivities))
	}
	for _, u := range det.UltraProcessed {
		items = append(items, ultraProcessedItem(u, sensitivities))
	}
	return assemble(items, a.Version())
}

// assemble tallies, scores and groups items into the final Result.
func assemble(items []AnalyzedItem, version string) Result {
	byTier := make(map[RiskTier][]AnalyzedItem, len(AllTiers))
	for _, t := range AllTiers {
		byTier[t] = []AnalyzedItem{}
	}

	var counts TierCounts
	alerts := []PersonalAlert{}
	for _, it := range items {
		counts.add(it.Tier)
		byTier[it.Tier] = append(byTier[it.Tier], it)
		if it.AffectsSensitivity {
			alerts = append(alerts, PersonalAlert{
				AdditiveName: it.Name,
				Code:         it.Code,
				Sensitivity:  it.SensitivityName,
				Reason:       sensitivityReason(it.SensitivityName),
			})
		}
	}

	score := Score(counts)
	return Result{
		Score:             score,
		Grade:             GradeFor(score, counts.Total() > 0),
		TotalCount:        counts.Total(),
		HighRiskCount:     counts.High,
		ModerateRiskCount: counts.Moderate,
		LowRiskCount:      counts.Low,
		SafeCount:         counts.Safe,
		PersonalAlerts:    alerts,
		ItemsByTier:       byTier,
		ReferenceVersion:  version,
	}
}

func sensitivityReason(label string) string {
	return fmt.Sprintf("You've marked %s as a sensitivity", label)
}

func additiveItem(rec AdditiveRecord, sensitivities SensitivitySet) AnalyzedItem {
	matched, label := MatchSensitivity(rec, sensitivities)

	name := strings.TrimSpace(rec.Name)
	if name == "" {
		name = strings.ToUpper(strings.TrimSpace(rec.ENumber))
	}
	if name == "" {
		name = "Unnamed additive"
	}
	tier := rec.Tier
	if tier < TierNone || tier > TierHigh {
		tier = TierNone
	}

	item := AnalyzedItem{
		Name:               name,
		Code:               strings.ToUpper(NormalizeENumber(rec.ENumber)),
		Kind:               KindAdditive,
		Tier:               tier,
		ShortDescription:   additiveDescription(rec),
		Origin:             OriginLabel(rec.Origin),
		IsVitaminOrMineral: rec.IsVitaminOrMineral,
		AffectsSensitivity: matched,
		SensitivityName:    label,
	}
	item.Reasons = additiveReasons(rec, matched, label)
	return item
}

// additiveDescription walks the text fallback chain: curated or comprehensive short text,
// first sentence of the full description, legacy summary, then a generic placeholder.
func additiveDescription(rec AdditiveRecord) string {
	for _, s := range []string{rec.ShortDescription, firstSentence(rec.FullDescription), rec.Summary} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return placeholderDescription
}

func additiveReasons(rec AdditiveRecord, matched bool, label string) []string {
	var reasons []string
	switch rec.Tier {
	case TierHigh:
		reasons = append(reasons, "Rated high concern in the additive reference.")
	case TierModerate:
		reasons = append(reasons, "Rated moderate concern; best limited.")
	case TierLow:
		reasons = append(reasons, "Rated low concern.")
	}
	if rec.ChildWarning {
		reasons = append(reasons, "May have an adverse effect on activity and attention in children.")
	}
	if rec.SulphiteAllergen {
		reasons = append(reasons, "Sulphites must be declared as an allergen.")
	}
	if rec.Origin == OriginSynthetic {
		reasons = append(reasons, "Synthetic origin.")
	}
	if !rec.Known {
		reasons = append(reasons, "Not listed in the additive reference.")
	}
	if matched {
		reasons = append(reasons, sensitivityReason(label)+".")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, placeholderReason)
	}
	return reasons
}

func ultraProcessedItem(u UltraProcessedIngredient, sensitivities SensitivitySet) AnalyzedItem {
	matched, label := MatchSensitivity(AdditiveRecord{Name: u.Name, Known: true}, sensitivities)

	desc := strings.TrimSpace(u.WhatItIs)
	if desc == "" && strings.TrimSpace(u.Category) != "" {
		desc = fmt.Sprintf("Ultra-processed ingredient (%s).", strings.TrimSpace(u.Category))
	}
	if desc == "" {
		desc = placeholderUltra
	}

	var reasons []string
	for _, c := range strings.Split(u.Concerns, ";") {
		if c = strings.TrimSpace(c); c != "" {
			reasons = append(reasons, c)
		}
	}
	if u.NovaGroup == 4 {
		reasons = append(reasons, "NOVA group 4 ultra-processed marker.")
	}
	if u.ProcessingPenalty > 0 {
		reasons = append(reasons, fmt.Sprintf("Processing penalty %d.", u.ProcessingPenalty))
	}
	if matched {
		reasons = append(reasons, sensitivityReason(label)+".")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, placeholderReason)
	}

	origin := "Processed"
	if u.NovaGroup > 0 {
		origin = fmt.Sprintf("NOVA group %d", u.NovaGroup)
	}

	return AnalyzedItem{
		Name:               u.Name,
		Kind:               KindUltraProcessed,
		Tier:               TierForUltraProcessed(u),
		ShortDescription:   desc,
		Origin:             origin,
		Reasons:            reasons,
		AffectsSensitivity: matched,
		SensitivityName:    label,
	}
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}
