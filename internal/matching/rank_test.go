// internal/matching/rank_test.go
package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(id string, score, confidence float64) MatchResult {
	return MatchResult{CandidateID: id, OverallScore: score, Confidence: confidence}
}

func diverse(id string, score float64, genre, country string) MatchResult {
	return MatchResult{CandidateID: id, OverallScore: score, Confidence: 80, primaryGenre: genre, country: country}
}

func ids(results []MatchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.CandidateID
	}
	return out
}

// ==========================
// Ranker
// ==========================

func TestRank_TotalOrder(t *testing.T) {
	in := []MatchResult{
		result("c", 70, 80),
		result("b", 90, 60),
		result("a", 70, 80),
		result("d", 70, 90),
		result("e", 90, 60),
	}

	ranked := Rank(in)

	assert.Equal(t, []string{"b", "e", "d", "a", "c"}, ids(ranked))
	assert.Equal(t, "c", in[0].CandidateID, "input must not be reordered")
}

func TestRank_Permutations(t *testing.T) {
	base := []MatchResult{
		result("a", 50, 50), result("b", 50, 50), result("c", 60, 40), result("d", 60, 70),
	}
	want := ids(Rank(base))
	reversed := []MatchResult{base[3], base[2], base[1], base[0]}
	assert.Equal(t, want, ids(Rank(reversed)))
}

func TestFilterEligible(t *testing.T) {
	in := []MatchResult{result("a", 80, 80), result("b", 20, 80), result("c", 20.5, 80)}
	assert.Equal(t, []string{"a", "c"}, ids(FilterEligible(in, 20)))
}

// ==========================
// Tier
// ==========================

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		score, confidence float64
		want              Tier
	}{
		{93.25, 80, TierPerfect},
		{85, 79, TierGreat},
		{75, 100, TierGreat},
		{74.99, 100, TierGood},
		{60, 20, TierGood},
		{45, 100, TierExplore},
		{44.9, 100, TierStretch},
		{0, 0, TierStretch},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/%v", tt.score, tt.confidence), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTier(tt.score, tt.confidence))
		})
	}
}

// ==========================
// Aggregator
// ==========================

func TestAggregate(t *testing.T) {
	weights := BaseWeights()
	results := map[Criterion]CriterionResult{
		CriterionGenre:        {Score: 100, Reasoning: "matches your genres rock"},
		CriterionBudget:       {Score: 30, Reasoning: "over budget"},
		CriterionTiming:       {Score: 100, Reasoning: "no month preference", Neutral: true},
		CriterionLocation:     {Score: 100, Reasoning: "located in france"},
		CriterionVibe:         {Score: 50, Reasoning: "no vibe", Neutral: true},
		CriterionExperience:   {Score: 70, Reasoning: "large crowd"},
		CriterionPracticality: {Score: 120, Reasoning: "out of range"},
	}

	m := Aggregate(Candidate{ID: "x", Name: "X Fest", Genres: []string{"Rock"}, Country: "France"}, weights, results)

	want := 0.35*100 + 0.25*30 + 0.15*100 + 0.10*100 + 0.08*50 + 0.04*70 + 0.03*100
	assert.InDelta(t, want, m.OverallScore, 1e-9)
	assert.Equal(t, 80.0, m.Confidence)
	assert.Equal(t, "X Fest", m.CandidateName)
	assert.Equal(t, 100.0, m.Breakdown[CriterionPracticality].Score)
	assert.Equal(t, 0.25, m.Breakdown[CriterionBudget].Weight)
	assert.Len(t, m.Insights, 3)
	require.Len(t, m.RiskFactors, 1)
	assert.Contains(t, m.RiskFactors[0], "budget")
	assert.Equal(t, "rock", m.primaryGenre)
	assert.Equal(t, "france", m.country)
}

func TestAggregate_LowInformation(t *testing.T) {
	m := Aggregate(Candidate{ID: "x"}, BaseWeights(), map[Criterion]CriterionResult{})

	assert.Equal(t, 30.0, m.Confidence)
	assert.InDelta(t, 50.0, m.OverallScore, 1e-9)
	assert.Empty(t, m.Insights)
	require.Len(t, m.RiskFactors, 1)
	assert.Contains(t, m.RiskFactors[0], "limited information")
	assert.Len(t, m.Breakdown, len(AllCriteria))
}

// ==========================
// Diversity
// ==========================

func TestDiversify_SizeContract(t *testing.T) {
	ranked := []MatchResult{
		diverse("a", 90, "rock", "uk"),
		diverse("b", 80, "rock", "uk"),
		diverse("c", 70, "rock", "uk"),
	}
	assert.Len(t, Diversify(ranked, 2), 2)
	assert.Len(t, Diversify(ranked, 10), 3)
	assert.Empty(t, Diversify(ranked, 0))
	assert.Empty(t, Diversify(nil, 3))
}

func TestDiversify_SkipsRepeatedGenreAndCountry(t *testing.T) {
	ranked := []MatchResult{
		diverse("a", 95, "rock", "uk"),
		diverse("b", 94, "rock", "uk"),
		diverse("c", 93, "rock", "uk"),
		diverse("d", 92, "jazz", "france"),
		diverse("e", 91, "rock", "spain"),
		diverse("f", 90, "techno", "uk"),
		diverse("g", 89, "folk", "ireland"),
	}

	out := Diversify(ranked, 5)

	assert.Equal(t, []string{"a", "b", "d", "e", "f"}, ids(out))
}

func TestDiversify_BackfillsWhenCatalogLacksVariety(t *testing.T) {
	ranked := []MatchResult{
		diverse("a", 95, "rock", "uk"),
		diverse("b", 94, "rock", "uk"),
		diverse("c", 93, "rock", "uk"),
		diverse("d", 92, "rock", "uk"),
		diverse("e", 91, "rock", "uk"),
	}

	out := Diversify(ranked, 4)

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(out))
}

func TestDiversify_TopFirstAndSorted(t *testing.T) {
	ranked := Rank([]MatchResult{
		diverse("z", 99, "rock", "uk"),
		diverse("y", 98, "rock", "uk"),
		diverse("x", 60, "jazz", "japan"),
		diverse("w", 55, "pop", "brazil"),
		diverse("v", 50, "folk", "peru"),
	})

	out := Diversify(ranked, 3)

	require.Len(t, out, 3)
	assert.Equal(t, "z", out[0].CandidateID)
	for i := 1; i < len(out); i++ {
		assert.True(t, Less(out[i-1], out[i]))
	}
	assert.NotContains(t, ids(out), "y")
}

func TestDiversify_Top5Guarantee(t *testing.T) {
	ranked := []MatchResult{
		diverse("a1", 99, "rock", "uk"),
		diverse("a2", 98, "rock", "uk"),
		diverse("a3", 97, "rock", "uk"),
		diverse("a4", 96, "rock", "uk"),
		diverse("a5", 95, "rock", "uk"),
		diverse("b", 60, "jazz", "japan"),
		diverse("c", 59, "pop", "brazil"),
		diverse("d", 58, "folk", "peru"),
		diverse("e", 57, "metal", "finland"),
	}

	out := Diversify(ranked, 5)

	pairs := map[string]int{}
	for _, r := range out {
		pairs[r.primaryGenre+"/"+r.country]++
	}
	for pair, n := range pairs {
		assert.LessOrEqual(t, n, 4, pair)
	}
}
