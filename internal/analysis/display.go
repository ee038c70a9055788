package analysis

import "fmt"

// DisplayMeta is presentation metadata for a tier or grade. Scoring never reads it.
type DisplayMeta struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

var tierDisplay = map[RiskTier]DisplayMeta{
	TierHigh:     {Label: "High risk", Color: "#E53935", Description: "Linked to health concerns; avoid where possible."},
	TierModerate: {Label: "Moderate risk", Color: "#FB8C00", Description: "Some concerns; best limited."},
	TierLow:      {Label: "Low risk", Color: "#FDD835", Description: "Generally considered safe in normal amounts."},
	TierNone:     {Label: "No risk", Color: "#43A047", Description: "No known concerns."},
}

var gradeDisplay = map[Grade]DisplayMeta{
	GradeNone:         {Label: "No additives", Color: "#43A047", Description: "No additives or ultra-processed ingredients detected."},
	GradeAverage:      {Label: "Average", Color: "#FDD835", Description: "Contains additives with limited concern."},
	GradeBelowAverage: {Label: "Below average", Color: "#FB8C00", Description: "Several additives or some of concern."},
	GradePoor:         {Label: "Poor", Color: "#E53935", Description: "Many additives or additives of high concern."},
}

// TierDisplay returns the display metadata for t.
func TierDisplay(t RiskTier) DisplayMeta {
	if m, ok := tierDisplay[t]; ok {
		return m
	}
	return DisplayMeta{Label: "Unknown", Color: "#9E9E9E"}
}

// GradeDisplay returns the display metadata for g.
func GradeDisplay(g Grade) DisplayMeta {
	if m, ok := gradeDisplay[g]; ok {
		return m
	}
	return DisplayMeta{Label: "Unknown", Color: "#9E9E9E"}
}

// OriginLabel renders an origin for item rows.
func OriginLabel(o Origin) string {
	switch o {
	case OriginNatural:
		return "Natural"
	case OriginSynthetic:
		return "Synthetic"
	case OriginBoth:
		return "Natural or synthetic"
	default:
		return "Unknown origin"
	}
}

// BadgeSummary is what the product badge shows: grade, item count and the number to watch.
type BadgeSummary struct {
	Grade   Grade       `json:"grade"`
	Display DisplayMeta `json:"display"`
	Count   int         `json:"count"`
	ToWatch int         `json:"to_watch"`
	Caption string      `json:"caption"`
}

// Badge summarises a result for the compact badge view.
func Badge(r Result) BadgeSummary {
	toWatch := r.HighRiskCount + r.ModerateRiskCount
	caption := "No additives"
	if r.TotalCount > 0 {
		caption = fmt.Sprintf("%d additives", r.TotalCount)
		if r.TotalCount == 1 {
			caption = "1 additive"
		}
		if toWatch > 0 {
			caption += fmt.Sprintf(", %d to watch", toWatch)
		}
	}
	return BadgeSummary{
		Grade:   r.Grade,
		Display: GradeDisplay(r.Grade),
		Count:   r.TotalCount,
		ToWatch: toWatch,
		Caption: caption,
	}
}
