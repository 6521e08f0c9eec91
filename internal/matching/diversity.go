// internal/matching/diversity.go
package matching

import (
	"math"
	"sort"
)

// DiversityShare is the portion of the output filled under the diversity rule.
const DiversityShare = 0.8

// Diversify picks min(n, len(ranked)) results from an already ranked list.
// The top result always comes first. Until ceil(0.8n) slots are taken, a
// result is passed over when both its primary genre and its country are
// already represented. The remaining slots go to the best results not yet
// chosen, passed-over ones included, so the output is never short.
func Diversify(ranked []MatchResult, n int) []MatchResult {
	if n <= 0 || len(ranked) == 0 {
		return []MatchResult{}
	}
	if n > len(ranked) {
		n = len(ranked)
	}

	quota := int(math.Ceil(DiversityShare * float64(n)))
	selected := make([]MatchResult, 0, n)
	chosen := make([]bool, len(ranked))
	genres := make(map[string]bool)
	countries := make(map[string]bool)

	take := func(i int) {
		r := ranked[i]
		chosen[i] = true
		selected = append(selected, r)
		genres[r.primaryGenre] = true
		countries[r.country] = true
	}

	take(0)
	for i := 1; i < len(ranked) && len(selected) < quota; i++ {
		r := ranked[i]
		if genres[r.primaryGenre] && countries[r.country] {
			continue
		}
		take(i)
	}
	for i := range ranked {
		if len(selected) == n {
			break
		}
		if !chosen[i] {
			take(i)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return Less(selected[i], selected[j])
	})
	return selected
}
