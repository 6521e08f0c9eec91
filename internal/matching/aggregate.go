// internal/matching/aggregate.go
package matching

import (
	"fmt"
	"math"
)

const (
	neutralPenalty  = 10.0
	confidenceFloor = 20.0
	insightScore    = 80.0
	riskScore       = 50.0
	lowConfidence   = 60.0
)

// Aggregate folds per-criterion results into a MatchResult. Weights are
// attached to the breakdown here; overall score is their weighted sum taken in
// AllCriteria order.
func Aggregate(c Candidate, weights Weights, results map[Criterion]CriterionResult) MatchResult {
	breakdown := make(map[Criterion]CriterionResult, len(AllCriteria))
	overall := 0.0
	neutralCount := 0
	insights := []string{}
	risks := []string{}

	for _, crit := range AllCriteria {
		r, ok := results[crit]
		if !ok {
			r = neutral(NeutralScore, "%s not scored - neutral score applied", crit)
		}
		r.Score = clamp(r.Score, 0, 100)
		r.Weight = weights[crit]
		breakdown[crit] = r

		overall += r.Score * r.Weight
		if r.Neutral {
			neutralCount++
			continue
		}
		if r.Score >= insightScore {
			insights = append(insights, fmt.Sprintf("%s: %s", crit, r.Reasoning))
		} else if r.Score < riskScore {
			risks = append(risks, fmt.Sprintf("%s mismatch: %s", crit, r.Reasoning))
		}
	}

	confidence := math.Max(confidenceFloor, 100-neutralPenalty*float64(neutralCount))
	if confidence < lowConfidence {
		risks = append(risks, fmt.Sprintf("limited information: %d of %d criteria used neutral defaults", neutralCount, len(AllCriteria)))
	}

	overall = clamp(overall, 0, 100)
	return MatchResult{
		CandidateID:        c.ID,
		CandidateName:      c.Name,
		OverallScore:       overall,
		Confidence:         confidence,
		Breakdown:          breakdown,
		Insights:           insights,
		RiskFactors:        risks,
		RecommendationTier: ClassifyTier(overall, confidence),
		primaryGenre:       c.PrimaryGenre(),
		country:            normalizeToken(c.Country),
	}
}
