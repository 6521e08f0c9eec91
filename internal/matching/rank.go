// internal/matching/rank.go
package matching

import "sort"

// Less is the ranking order: score desc, then confidence desc, then id asc.
// Distinct ids never compare equal.
func Less(a, b MatchResult) bool {
	if a.OverallScore != b.OverallScore {
		return a.OverallScore > b.OverallScore
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.CandidateID < b.CandidateID
}

// Rank returns a sorted copy of results.
func Rank(results []MatchResult) []MatchResult {
	ranked := make([]MatchResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Less(ranked[i], ranked[j])
	})
	return ranked
}

// FilterEligible keeps results scoring strictly above floor, preserving order.
func FilterEligible(results []MatchResult, floor float64) []MatchResult {
	eligible := make([]MatchResult, 0, len(results))
	for _, r := range results {
		if r.OverallScore > floor {
			eligible = append(eligible, r)
		}
	}
	return eligible
}
