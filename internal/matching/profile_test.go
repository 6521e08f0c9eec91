// internal/matching/profile_test.go
package matching

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProfile_Defaults(t *testing.T) {
	for name, answers := range map[string]Answers{
		"nil":   nil,
		"empty": {},
		"unknown keys only": {
			"favouriteColour": "blue",
			"newsletter":      true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			p := BuildProfile(answers)

			assert.Empty(t, p.Genres)
			assert.NotNil(t, p.Genres)
			assert.Equal(t, Range{Min: 0, Max: BudgetCeiling}, p.Budget)
			assert.False(t, p.BudgetSpecified)
			assert.Empty(t, p.Months)
			assert.Equal(t, RegionAnywhere, p.Region)
			assert.Empty(t, p.Vibes)
			assert.Equal(t, CrowdAny, p.CrowdSize)
			assert.Equal(t, FlexibilityMedium, p.TravelFlexibility)
			assert.Equal(t, 1.0, p.BudgetFlexibility)
			assert.Equal(t, 0.0, p.GenreSpecificity)
			assert.Equal(t, 0, p.Needs.Count())
			assert.Zero(t, p.MaxDays)
		})
	}
}

func TestBuildProfile_Genres(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want []string
	}{
		{"list", []interface{}{"Rock", " indie ", "rock"}, []string{"rock", "indie"}},
		{"comma string", "EDM, Hip Hop,,edm", []string{"edm", "hip-hop"}},
		{"string slice", []string{"Jazz"}, []string{"jazz"}},
		{"any is no preference", []interface{}{"any"}, []string{}},
		{"non-strings ignored", []interface{}{42, "folk", nil}, []string{"folk"}},
		{"wrong type", 17, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildProfile(Answers{"genres": tt.raw})
			assert.Equal(t, tt.want, p.Genres)
		})
	}
}

func TestBuildProfile_GenreSpecificity(t *testing.T) {
	p := BuildProfile(Answers{"genres": []interface{}{"rock", "jazz", "folk", "pop"}})
	assert.InDelta(t, 0.25, p.GenreSpecificity, 1e-9)

	p = BuildProfile(Answers{"genres": "rock"})
	assert.InDelta(t, 1.0, p.GenreSpecificity, 1e-9)
}

func TestBuildProfile_Budget(t *testing.T) {
	tests := []struct {
		name      string
		answers   Answers
		want      Range
		specified bool
	}{
		{
			name:      "object",
			answers:   Answers{"budget": map[string]interface{}{"min": 500.0, "max": 2000.0}},
			want:      Range{Min: 500, Max: 2000},
			specified: true,
		},
		{
			name:      "object with currency strings",
			answers:   Answers{"budget": map[string]interface{}{"min": "$500", "max": "$2,000"}},
			want:      Range{Min: 500, Max: 2000},
			specified: true,
		},
		{
			name:      "tier token",
			answers:   Answers{"budget": "1000-2000"},
			want:      Range{Min: 1000, Max: 2000},
			specified: true,
		},
		{
			name:      "open-ended tier",
			answers:   Answers{"budget": "2000-plus"},
			want:      Range{Min: 2000, Max: BudgetCeiling},
			specified: true,
		},
		{
			name:      "free-form range",
			answers:   Answers{"budget": "$500 - $2,000"},
			want:      Range{Min: 500, Max: 2000},
			specified: true,
		},
		{
			name:      "free-form ceiling",
			answers:   Answers{"budget": "Under $750"},
			want:      Range{Min: 0, Max: 750},
			specified: true,
		},
		{
			name:      "thousands suffix",
			answers:   Answers{"budget": "1k-1.5k"},
			want:      Range{Min: 1000, Max: 1500},
			specified: true,
		},
		{
			name:      "separate keys override",
			answers:   Answers{"budget": "under-500", "budgetMax": 900.0},
			want:      Range{Min: 0, Max: 900},
			specified: true,
		},
		{
			name:      "min greater than max swaps",
			answers:   Answers{"budgetMin": 3000.0, "budgetMax": 1000.0},
			want:      Range{Min: 1000, Max: 3000},
			specified: true,
		},
		{
			name:      "negative clamps to zero",
			answers:   Answers{"budgetMin": -200.0, "budgetMax": 400.0},
			want:      Range{Min: 0, Max: 400},
			specified: true,
		},
		{
			name:      "unparseable string ignored",
			answers:   Answers{"budget": "whatever works"},
			want:      Range{Min: 0, Max: BudgetCeiling},
			specified: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildProfile(tt.answers)
			assert.Equal(t, tt.want, p.Budget)
			assert.Equal(t, tt.specified, p.BudgetSpecified)
		})
	}
}

func TestBuildProfile_BudgetFlexibility(t *testing.T) {
	p := BuildProfile(Answers{"budget": map[string]interface{}{"min": 500.0, "max": 2000.0}})
	assert.InDelta(t, 0.75, p.BudgetFlexibility, 1e-9)

	p = BuildProfile(Answers{"budgetMin": 0.0, "budgetMax": 0.0})
	assert.Equal(t, 0.0, p.BudgetFlexibility)
}

func TestBuildProfile_Months(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want []time.Month
	}{
		{"names", []interface{}{"July", "aug"}, []time.Month{time.July, time.August}},
		{"numbers", []interface{}{12.0, 1.0, 12.0}, []time.Month{time.January, time.December}},
		{"comma string", "jun, sept", []time.Month{time.June, time.September}},
		{"season", []interface{}{"summer"}, []time.Month{time.June, time.July, time.August}},
		{"invalid dropped", []interface{}{"smarch", 13.0, 2.5}, []time.Month{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildProfile(Answers{"months": tt.raw})
			assert.Equal(t, tt.want, p.Months)
		})
	}
}

func TestBuildProfile_Scalars(t *testing.T) {
	p := BuildProfile(Answers{
		"region":            "Western Europe",
		"vibes":             []interface{}{"Chill", "party"},
		"crowdSize":         "Small",
		"travelFlexibility": true,
		"familyFriendly":    "yes",
		"accommodation":     "glamping",
		"maxDays":           "4",
	})

	assert.Equal(t, "western-europe", p.Region)
	assert.Equal(t, []string{"chill", "party"}, p.Vibes)
	assert.Equal(t, CrowdIntimate, p.CrowdSize)
	assert.Equal(t, FlexibilityHigh, p.TravelFlexibility)
	assert.True(t, p.Needs.FamilyFriendly)
	assert.True(t, p.Needs.Glamping)
	assert.False(t, p.Needs.Camping)
	assert.Equal(t, 4, p.MaxDays)
}

func TestBuildProfile_UnrecognizedScalarsFallBack(t *testing.T) {
	p := BuildProfile(Answers{
		"region":            "anywhere",
		"crowdSize":         "gigantic-ish",
		"travelFlexibility": "sometimes",
		"maxDays":           -3.0,
	})

	assert.Equal(t, RegionAnywhere, p.Region)
	assert.Equal(t, CrowdAny, p.CrowdSize)
	assert.Equal(t, FlexibilityMedium, p.TravelFlexibility)
	assert.Zero(t, p.MaxDays)
}

func TestBuildProfile_FromJSON(t *testing.T) {
	var answers Answers
	require.NoError(t, json.Unmarshal([]byte(`{
		"genres": ["EDM"],
		"budget": {"min": 500, "max": 2000},
		"months": ["July"],
		"region": "Western-Europe",
		"crowdSize": "large"
	}`), &answers))

	p := BuildProfile(answers)
	assert.Equal(t, []string{"edm"}, p.Genres)
	assert.Equal(t, Range{Min: 500, Max: 2000}, p.Budget)
	assert.Equal(t, []time.Month{time.July}, p.Months)
	assert.Equal(t, "western-europe", p.Region)
	assert.Equal(t, CrowdLarge, p.CrowdSize)
}

func TestPreferenceProfile_Unanswered(t *testing.T) {
	assert.Equal(t, AllCriteria, BuildProfile(nil).Unanswered())

	p := BuildProfile(Answers{
		"genres":   []interface{}{"techno"},
		"region":   "asia",
		"camping":  true,
		"maxDays":  3,
		"timeline": "whenever",
	})
	assert.Equal(t, []Criterion{
		CriterionBudget, CriterionTiming, CriterionVibe, CriterionExperience,
	}, p.Unanswered())

	full := BuildProfile(exampleAnswers())
	full.Vibes = []string{"party"}
	full.MaxDays = 4
	assert.Empty(t, full.Unanswered())
}
