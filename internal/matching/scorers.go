// internal/matching/scorers.go
package matching

import (
	"fmt"
	"math"
	"strings"
	"time"

	"festival-matcher/pkg/refdata"
)

// NeutralScore is returned when there is no signal to score on.
const NeutralScore = 50.0

// Scorer rates a candidate against a profile on one criterion. Implementations
// must not fail on missing candidate fields; they return a neutral result instead.
type Scorer interface {
	Criterion() Criterion
	Score(p PreferenceProfile, c Candidate) CriterionResult
}

// DefaultScorers returns one scorer per criterion, in AllCriteria order.
func DefaultScorers(tables *refdata.Tables) []Scorer {
	if tables == nil {
		tables = refdata.Default()
	}
	return []Scorer{
		genreScorer{tables: tables},
		budgetScorer{},
		timingScorer{tables: tables},
		locationScorer{tables: tables},
		vibeScorer{},
		experienceScorer{},
		practicalityScorer{},
	}
}

func neutral(score float64, format string, args ...interface{}) CriterionResult {
	return CriterionResult{Score: score, Reasoning: fmt.Sprintf(format, args...), Neutral: true}
}

func scored(score float64, format string, args ...interface{}) CriterionResult {
	return CriterionResult{Score: clamp(score, 0, 100), Reasoning: fmt.Sprintf(format, args...)}
}

func tokenSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t = normalizeToken(t); t != "" {
			set[t] = true
		}
	}
	return set
}

// ==========================
// Genre
// ==========================

const (
	affinityCredit   = 0.5
	breadthBonus     = 5.0
	breadthThreshold = 3
)

type genreScorer struct {
	tables *refdata.Tables
}

func (genreScorer) Criterion() Criterion { return CriterionGenre }

func (s genreScorer) Score(p PreferenceProfile, c Candidate) CriterionResult {
	if len(p.Genres) == 0 {
		return neutral(NeutralScore, "no genre preference specified - neutral score applied")
	}
	tags := tokenSet(c.Genres)
	if len(tags) == 0 {
		return neutral(NeutralScore, "festival has no genre information - neutral score applied")
	}

	var exact, related []string
	credit := 0.0
	for _, g := range p.Genres {
		if tags[g] {
			exact = append(exact, g)
			credit++
			continue
		}
		for _, cg := range c.Genres {
			if s.tables.Affine(g, cg) {
				related = append(related, g)
				credit += affinityCredit
				break
			}
		}
	}

	denom := math.Min(float64(len(p.Genres)), float64(len(tags)))
	score := math.Min(100, 100*credit/denom)
	if credit > 0 && len(p.Genres) >= breadthThreshold && len(tags) >= breadthThreshold {
		score = math.Min(100, score+breadthBonus)
	}

	switch {
	case len(exact) > 0 && len(related) > 0:
		return scored(score, "matches your genres %s, related to %s", strings.Join(exact, ", "), strings.Join(related, ", "))
	case len(exact) > 0:
		return scored(score, "matches your genres %s", strings.Join(exact, ", "))
	case len(related) > 0:
		return scored(score, "related to your genres %s", strings.Join(related, ", "))
	default:
		return scored(score, "no overlap with your genres %s", strings.Join(p.Genres, ", "))
	}
}

// ==========================
// Budget
// ==========================

const (
	underBudgetScore = 85.0
	comfortRatio     = 0.8
	comfortBonus     = 20.0
	stretchBase      = 10.0
	stretchSpan      = 30.0
	stretchDecay     = 4.0
)

type budgetScorer struct{}

func (budgetScorer) Criterion() Criterion { return CriterionBudget }

func (budgetScorer) Score(p PreferenceProfile, c Candidate) CriterionResult {
	if !p.BudgetSpecified {
		return neutral(NeutralScore, "no budget specified - neutral score applied")
	}
	if c.Cost == nil {
		return neutral(NeutralScore, "festival cost unknown - neutral score applied")
	}

	user := p.Budget
	cost := *c.Cost
	if cost.Min > cost.Max {
		cost.Min, cost.Max = cost.Max, cost.Min
	}

	if (cost.Min >= user.Min && cost.Max <= user.Max) || (user.Min >= cost.Min && user.Max <= cost.Max) {
		return scored(100, "cost %.0f-%.0f fits your budget of %.0f-%.0f", cost.Min, cost.Max, user.Min, user.Max)
	}

	if cost.Max < user.Min {
		return scored(underBudgetScore, "cost %.0f-%.0f is below your budget", cost.Min, cost.Max)
	}

	if cost.Min > user.Max {
		overshoot := 1.0
		if user.Max > 0 {
			overshoot = (cost.Min - user.Max) / user.Max
		}
		score := stretchBase + stretchSpan*math.Exp(-stretchDecay*overshoot)
		return scored(score, "cost from %.0f exceeds your budget by %.0f%%", cost.Min, overshoot*100)
	}

	overlap := math.Min(cost.Max, user.Max) - math.Max(cost.Min, user.Min)
	wider := math.Max(cost.Width(), user.Width())
	score := 100.0
	if wider > 0 {
		score = 100 * overlap / wider
	}
	if cost.Max <= comfortRatio*user.Max {
		score += comfortBonus
	}
	return scored(math.Min(100, score), "cost %.0f-%.0f partially overlaps your budget", cost.Min, cost.Max)
}

// ==========================
// Timing
// ==========================

const adjacentMonthScore = 70.0

type timingScorer struct {
	tables *refdata.Tables
}

func (timingScorer) Criterion() Criterion { return CriterionTiming }

func (s timingScorer) Score(p PreferenceProfile, c Candidate) CriterionResult {
	if len(p.Months) == 0 {
		return neutral(100, "no month preference specified - any date works")
	}
	if len(c.Months) == 0 {
		return neutral(NeutralScore, "festival dates unknown - neutral score applied")
	}

	wanted := make(map[time.Month]bool, len(p.Months))
	for _, m := range p.Months {
		wanted[m] = true
	}

	for _, m := range c.Months {
		if wanted[m] {
			return scored(100, "takes place in %s, when you want to go", m)
		}
	}

	for _, m := range c.Months {
		if wanted[shiftMonth(m, -1)] || wanted[shiftMonth(m, 1)] {
			return scored(adjacentMonthScore, "takes place in %s, a month off your dates", m)
		}
	}

	best := -1.0
	var bestMonth time.Month
	for _, m := range c.Months {
		if v := s.tables.Seasonal(m); v > best {
			best, bestMonth = v, m
		}
	}
	return scored(best, "takes place in %s, outside your preferred months", bestMonth)
}

func shiftMonth(m time.Month, delta int) time.Month {
	return time.Month((int(m)-1+delta+12)%12 + 1)
}

// ==========================
// Location
// ==========================

const (
	neighborRegionScore = 60.0
	distantRegionScore  = 25.0
)

type locationScorer struct {
	tables *refdata.Tables
}

func (locationScorer) Criterion() Criterion { return CriterionLocation }

func (s locationScorer) Score(p PreferenceProfile, c Candidate) CriterionResult {
	if p.Region == "" || p.Region == RegionAnywhere {
		return neutral(100, "open to any location")
	}
	region := normalizeToken(c.Region)
	country := normalizeToken(c.Country)
	if region == "" && country == "" {
		return neutral(NeutralScore, "festival location unknown - neutral score applied")
	}

	want := p.Region
	if want == region || want == country || (country != "" && s.tables.InRegion(want, country)) {
		return scored(100, "located in %s", want)
	}

	regions := s.tables.RegionsOf(country)
	if region != "" {
		regions = append([]string{region}, regions...)
	}
	wantRegions := []string{want}
	if !s.tables.KnownRegion(want) {
		wantRegions = s.tables.RegionsOf(want)
	}
	for _, r := range regions {
		for _, w := range wantRegions {
			if r == w {
				return scored(neighborRegionScore, "in the same region as %s", want)
			}
			if s.tables.Neighbors(r, w) {
				return scored(neighborRegionScore, "%s is next to %s", r, w)
			}
		}
	}

	where := region
	if where == "" {
		where = country
	}
	return scored(distantRegionScore, "located in %s, far from %s", where, want)
}

// ==========================
// Vibe
// ==========================

type vibeScorer struct{}

func (vibeScorer) Criterion() Criterion { return CriterionVibe }

func (vibeScorer) Score(p PreferenceProfile, c Candidate) CriterionResult {
	if len(p.Vibes) == 0 {
		return neutral(NeutralScore, "no vibe preference specified - neutral score applied")
	}
	tags := tokenSet(c.Vibes)
	if len(tags) == 0 {
		return neutral(NeutralScore, "festival vibe unknown - neutral score applied")
	}

	var shared []string
	union := len(tags)
	for _, v := range p.Vibes {
		if tags[v] {
			shared = append(shared, v)
		} else {
			union++
		}
	}
	score := 100 * float64(len(shared)) / float64(union)
	if len(shared) == 0 {
		return scored(score, "none of your vibes (%s)", strings.Join(p.Vibes, ", "))
	}
	return scored(score, "shares your vibes %s", strings.Join(shared, ", "))
}

// ==========================
// Experience
// ==========================

var crowdDistanceScores = []float64{100, 70, 40, 15}

type experienceScorer struct{}

func (experienceScorer) Criterion() Criterion { return CriterionExperience }

func (experienceScorer) Score(p PreferenceProfile, c Candidate) CriterionResult {
	if p.CrowdSize == CrowdAny || p.CrowdSize == CrowdUnknown {
		return neutral(100, "no crowd size preference")
	}
	if c.CrowdSize <= CrowdUnknown {
		return neutral(NeutralScore, "festival crowd size unknown - neutral score applied")
	}

	d := int(p.CrowdSize) - int(c.CrowdSize)
	if d < 0 {
		d = -d
	}
	if d >= len(crowdDistanceScores) {
		d = len(crowdDistanceScores) - 1
	}
	if d == 0 {
		return scored(100, "%s crowd, as you prefer", c.CrowdSize)
	}
	return scored(crowdDistanceScores[d], "%s crowd, you prefer %s", c.CrowdSize, p.CrowdSize)
}

// ==========================
// Practicality
// ==========================

const (
	unknownAmenityCredit = 0.5
	durationShare        = 0.4
)

type practicalityScorer struct{}

func (practicalityScorer) Criterion() Criterion { return CriterionPracticality }

func (practicalityScorer) Score(p PreferenceProfile, c Candidate) CriterionResult {
	needs := p.Needs.Count()
	hasTrip := p.MaxDays > 0 && c.DurationDays > 0
	if needs == 0 && !hasTrip {
		return neutral(NeutralScore, "no practical requirements specified - neutral score applied")
	}

	var met, missing []string
	amenityScore := 0.0
	if needs > 0 {
		credit := 0.0
		check := func(need bool, have *bool, label string) {
			if !need {
				return
			}
			switch {
			case have == nil:
				credit += unknownAmenityCredit
			case *have:
				credit++
				met = append(met, label)
			default:
				missing = append(missing, label)
			}
		}
		check(p.Needs.FamilyFriendly, c.Amenities.FamilyFriendly, "family-friendly")
		check(p.Needs.Camping, c.Amenities.Camping, "camping")
		check(p.Needs.Glamping, c.Amenities.Glamping, "glamping")
		amenityScore = 100 * credit / float64(needs)
	}

	score := amenityScore
	if hasTrip {
		tripScore := 100.0
		if c.DurationDays > p.MaxDays {
			tripScore = 100 * float64(p.MaxDays) / float64(c.DurationDays)
		}
		if needs > 0 {
			score = (1-durationShare)*amenityScore + durationShare*tripScore
		} else {
			score = tripScore
		}
		if c.DurationDays > p.MaxDays {
			missing = append(missing, fmt.Sprintf("%d days is longer than your %d", c.DurationDays, p.MaxDays))
		}
	}

	switch {
	case len(missing) > 0:
		return scored(score, "missing: %s", strings.Join(missing, ", "))
	case len(met) > 0:
		return scored(score, "offers %s", strings.Join(met, ", "))
	default:
		return scored(score, "practical details partly unknown")
	}
}
