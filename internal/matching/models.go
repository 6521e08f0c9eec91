// internal/matching/models.go
package matching

import (
	"encoding/json"
	"strings"
	"time"

	"festival-matcher/pkg/refdata"
)

// Criterion identifies one scoring dimension.
type Criterion string

const (
	CriterionGenre        Criterion = "genre"
	CriterionBudget       Criterion = "budget"
	CriterionTiming       Criterion = "timing"
	CriterionLocation     Criterion = "location"
	CriterionVibe         Criterion = "vibe"
	CriterionExperience   Criterion = "experience"
	CriterionPracticality Criterion = "practicality"
)

// AllCriteria is the fixed evaluation and summation order. Anything that
// accumulates floats over criteria iterates this slice, never a map.
var AllCriteria = []Criterion{
	CriterionGenre,
	CriterionBudget,
	CriterionTiming,
	CriterionLocation,
	CriterionVibe,
	CriterionExperience,
	CriterionPracticality,
}

// CrowdSize is an ordinal; the zero value means unknown.
type CrowdSize int

const (
	CrowdUnknown CrowdSize = iota
	CrowdIntimate
	CrowdMedium
	CrowdLarge
	CrowdMassive
)

// CrowdAny is used on the profile side only.
const CrowdAny CrowdSize = -1

func (c CrowdSize) String() string {
	switch c {
	case CrowdAny:
		return "any"
	case CrowdIntimate:
		return "intimate"
	case CrowdMedium:
		return "medium"
	case CrowdLarge:
		return "large"
	case CrowdMassive:
		return "massive"
	default:
		return "unknown"
	}
}

// ParseCrowdSize maps a label to a CrowdSize. Common synonyms are accepted.
func ParseCrowdSize(s string) CrowdSize {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any", "no-preference", "doesnt-matter", "":
		return CrowdAny
	case "intimate", "small", "boutique":
		return CrowdIntimate
	case "medium", "mid", "mid-size":
		return CrowdMedium
	case "large", "big":
		return CrowdLarge
	case "massive", "huge", "mega":
		return CrowdMassive
	default:
		return CrowdUnknown
	}
}

func (c CrowdSize) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CrowdSize) UnmarshalText(b []byte) error {
	v := ParseCrowdSize(string(b))
	if v == CrowdAny && len(strings.TrimSpace(string(b))) == 0 {
		v = CrowdUnknown
	}
	*c = v
	return nil
}

// Amenities are tri-state: nil means the catalog doesn't say.
type Amenities struct {
	FamilyFriendly *bool `json:"familyFriendly,omitempty"`
	Camping        *bool `json:"camping,omitempty"`
	Glamping       *bool `json:"glamping,omitempty"`
}

// Range is a closed numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Width() float64 {
	if r.Max < r.Min {
		return 0
	}
	return r.Max - r.Min
}

// MonthList decodes months given either as numbers (1-12) or names.
// Unrecognized entries are dropped.
type MonthList []time.Month

func (m *MonthList) UnmarshalJSON(b []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(MonthList, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case float64:
			if v >= 1 && v <= 12 && v == float64(int(v)) {
				out = append(out, time.Month(int(v)))
			}
		case string:
			if month, ok := refdata.ParseMonth(v); ok {
				out = append(out, month)
			}
		}
	}
	*m = out
	return nil
}

// Candidate is one festival from the catalog. Read-only once loaded.
type Candidate struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	City         string    `json:"city,omitempty"`
	Country      string    `json:"country,omitempty"`
	Region       string    `json:"region,omitempty"`
	Genres       []string  `json:"genres,omitempty"`
	Vibes        []string  `json:"vibes,omitempty"`
	Cost         *Range    `json:"cost,omitempty"`
	Months       MonthList `json:"months,omitempty"`
	DurationDays int       `json:"durationDays,omitempty"`
	CrowdSize    CrowdSize `json:"crowdSize"`
	Amenities    Amenities `json:"amenities"`
}

// PrimaryGenre is the first genre tag, normalized, or "" when there are none.
func (c Candidate) PrimaryGenre() string {
	for _, g := range c.Genres {
		if g = normalizeToken(g); g != "" {
			return g
		}
	}
	return ""
}

// TravelFlexibility describes how far the user is willing to travel.
type TravelFlexibility string

const (
	FlexibilityLow    TravelFlexibility = "low"
	FlexibilityMedium TravelFlexibility = "medium"
	FlexibilityHigh   TravelFlexibility = "high"
)

// AmenityNeeds lists what the user explicitly asked for.
type AmenityNeeds struct {
	FamilyFriendly bool `json:"familyFriendly"`
	Camping        bool `json:"camping"`
	Glamping       bool `json:"glamping"`
}

func (n AmenityNeeds) Count() int {
	c := 0
	for _, v := range []bool{n.FamilyFriendly, n.Camping, n.Glamping} {
		if v {
			c++
		}
	}
	return c
}

// RegionAnywhere is the location sentinel meaning no preference.
const RegionAnywhere = "anywhere"

// BudgetCeiling is the sentinel upper bound used when no budget was given.
const BudgetCeiling = 1e9

// PreferenceProfile is the canonical form of a user's answers. Build it with
// BuildProfile; it is not modified afterwards.
type PreferenceProfile struct {
	Genres            []string          `json:"genres"`
	Budget            Range             `json:"budget"`
	BudgetSpecified   bool              `json:"budgetSpecified"`
	Months            []time.Month      `json:"months"`
	Region            string            `json:"region"`
	Vibes             []string          `json:"vibes"`
	CrowdSize         CrowdSize         `json:"crowdSize"`
	BudgetFlexibility float64           `json:"budgetFlexibility"`
	GenreSpecificity  float64           `json:"genreSpecificity"`
	TravelFlexibility TravelFlexibility `json:"travelFlexibility"`
	Needs             AmenityNeeds      `json:"needs"`
	MaxDays           int               `json:"maxDays,omitempty"`
}

// CriterionResult is the outcome of one scorer for one candidate.
type CriterionResult struct {
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Reasoning string  `json:"reasoning"`
	Neutral   bool    `json:"neutral"`
}

// Tier is the recommendation bucket derived from score and confidence.
type Tier string

const (
	TierPerfect Tier = "perfect"
	TierGreat   Tier = "great"
	TierGood    Tier = "good"
	TierExplore Tier = "explore"
	TierStretch Tier = "stretch"
)

// MatchResult is the scored, explained view of one candidate.
type MatchResult struct {
	CandidateID        string                        `json:"candidateId"`
	CandidateName      string                        `json:"candidateName"`
	OverallScore       float64                       `json:"overallScore"`
	Confidence         float64                       `json:"confidence"`
	Breakdown          map[Criterion]CriterionResult `json:"breakdown"`
	Insights           []string                      `json:"insights"`
	RiskFactors        []string                      `json:"riskFactors"`
	RecommendationTier Tier                          `json:"recommendationTier"`

	primaryGenre string
	country      string
}

// Weights maps each criterion to its share of the overall score.
type Weights map[Criterion]float64

// Sum adds the weights in AllCriteria order.
func (w Weights) Sum() float64 {
	total := 0.0
	for _, c := range AllCriteria {
		total += w[c]
	}
	return total
}
