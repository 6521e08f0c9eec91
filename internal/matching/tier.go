// internal/matching/tier.go
package matching

// ClassifyTier buckets a result for display. It plays no part in ranking.
func ClassifyTier(score, confidence float64) Tier {
	switch {
	case score >= 85 && confidence >= 80:
		return TierPerfect
	case score >= 75:
		return TierGreat
	case score >= 60:
		return TierGood
	case score >= 45:
		return TierExplore
	default:
		return TierStretch
	}
}
