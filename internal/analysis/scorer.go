package analysis

// Tier penalties applied once per item.
const (
	penaltyHigh     = 20
	penaltyModerate = 12
	penaltyLow      = 6
	penaltySafe     = 2

	// majorityPenalty applies when more than half of all items are high or moderate.
	majorityPenalty = 10

	maxScore = 100
	minScore = 0
)

// Grade thresholds; a score at the threshold belongs to the better grade.
const (
	averageThreshold      = 70
	belowAverageThreshold = 40
)

// Score computes the 0-100 additive score from the four tier counts.
func Score(c TierCounts) int {
	total := c.Total()
	if total == 0 {
		return maxScore
	}

	score := maxScore
	score -= c.High*penaltyHigh + c.Moderate*penaltyModerate + c.Low*penaltyLow + c.Safe*penaltySafe
	score -= quantityPenalty(total)

	concerning := c.High + c.Moderate
	if concerning > 0 && float64(concerning)/float64(total) > 0.5 {
		score -= majorityPenalty
	}

	return clamp(score, minScore, maxScore)
}

// quantityPenalty is super-linear in the item count: free up to 3 items,
// 5 per item up to 6, 8 per item up to 10, 12 per item beyond.
func quantityPenalty(total int) int {
	switch {
	case total <= 3:
		return 0
	case total <= 6:
		return (total - 3) * 5
	case total <= 10:
		return 3*5 + (total-6)*8
	default:
		return 3*5 + 4*8 + (total-10)*12
	}
}

// GradeFor derives the grade. Only a product with nothing detected reaches GradeNone.
func GradeFor(score int, hasAdditives bool) Grade {
	switch {
	case !hasAdditives:
		return GradeNone
	case score >= averageThreshold:
		return GradeAverage
	case score >= belowAverageThreshold:
		return GradeBelowAverage
	default:
		return GradePoor
	}
}

// TierForUltraProcessed buckets an ultra-processed ingredient by NOVA group and processing penalty.
func TierForUltraProcessed(u UltraProcessedIngredient) RiskTier {
	switch {
	case u.NovaGroup == 4 || u.ProcessingPenalty >= 8:
		return TierHigh
	case u.ProcessingPenalty >= 5:
		return TierModerate
	case u.ProcessingPenalty >= 2:
		return TierLow
	default:
		return TierNone
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
