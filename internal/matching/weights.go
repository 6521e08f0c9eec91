// internal/matching/weights.go
package matching

import "math"

// CatalogStats summarizes the candidate set for the weight rules.
type CatalogStats struct {
	CostMin  float64 `json:"costMin"`
	CostMax  float64 `json:"costMax"`
	HasCosts bool    `json:"hasCosts"`
}

// CostRange is the spread between the cheapest and most expensive festival.
func (s CatalogStats) CostRange() float64 {
	if !s.HasCosts || s.CostMax < s.CostMin {
		return 0
	}
	return s.CostMax - s.CostMin
}

// ComputeStats scans candidates for their overall cost range.
func ComputeStats(candidates []Candidate) CatalogStats {
	var s CatalogStats
	for _, c := range candidates {
		if c.Cost == nil {
			continue
		}
		if !s.HasCosts {
			s.CostMin, s.CostMax, s.HasCosts = c.Cost.Min, c.Cost.Max, true
			continue
		}
		s.CostMin = math.Min(s.CostMin, c.Cost.Min)
		s.CostMax = math.Max(s.CostMax, c.Cost.Max)
	}
	return s
}

var baseWeights = Weights{
	CriterionGenre:        0.35,
	CriterionBudget:       0.25,
	CriterionTiming:       0.15,
	CriterionLocation:     0.10,
	CriterionVibe:         0.08,
	CriterionExperience:   0.04,
	CriterionPracticality: 0.03,
}

// BaseWeights returns a copy of the default weight table.
func BaseWeights() Weights {
	w := make(Weights, len(baseWeights))
	for _, c := range AllCriteria {
		w[c] = baseWeights[c]
	}
	return w
}

const (
	narrowGenreShift    = 0.05
	tightBudgetBoost    = 0.10
	tightBudgetRatio    = 0.20
	flexibleTravelShift = 0.05
)

// SelectWeights adjusts the base weights to the profile and renormalizes them
// so they sum to 1.
func SelectWeights(p PreferenceProfile, stats CatalogStats) Weights {
	w := BaseWeights()

	if len(p.Genres) <= 1 {
		w[CriterionGenre] -= narrowGenreShift
		w[CriterionExperience] += narrowGenreShift / 2
		w[CriterionPracticality] += narrowGenreShift / 2
	}

	if p.BudgetSpecified {
		if spread := stats.CostRange(); spread > 0 && p.Budget.Width() < tightBudgetRatio*spread {
			w[CriterionBudget] += tightBudgetBoost
		}
	}

	if p.TravelFlexibility == FlexibilityHigh {
		w[CriterionLocation] -= flexibleTravelShift
	}

	for _, c := range AllCriteria {
		if w[c] < 0 {
			w[c] = 0
		}
	}

	total := w.Sum()
	if total <= 0 {
		return BaseWeights()
	}
	for _, c := range AllCriteria {
		w[c] /= total
	}
	return w
}
