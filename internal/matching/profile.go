// internal/matching/profile.go
package matching

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"festival-matcher/pkg/refdata"
)

// Answers is the raw quiz payload. Keys the builder doesn't know are ignored.
type Answers map[string]interface{}

var budgetTiers = map[string]Range{
	"under-500":  {Min: 0, Max: 500},
	"500-1000":   {Min: 500, Max: 1000},
	"1000-2000":  {Min: 1000, Max: 2000},
	"2000-plus":  {Min: 2000, Max: BudgetCeiling},
	"budget":     {Min: 0, Max: 500},
	"moderate":   {Min: 500, Max: 1000},
	"premium":    {Min: 1000, Max: 2000},
	"luxury":     {Min: 2000, Max: BudgetCeiling},
	"no-limit":   {Min: 0, Max: BudgetCeiling},
	"unlimited":  {Min: 0, Max: BudgetCeiling},
	"any-budget": {Min: 0, Max: BudgetCeiling},
}

var seasons = map[string][]time.Month{
	"spring": {time.March, time.April, time.May},
	"summer": {time.June, time.July, time.August},
	"autumn": {time.September, time.October, time.November},
	"fall":   {time.September, time.October, time.November},
	"winter": {time.December, time.January, time.February},
}

var noPreference = map[string]bool{
	"any": true, "anywhere": true, "anytime": true, "all": true,
	"no-preference": true, "none": true, "doesnt-matter": true,
}

var amountPattern = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(k)?`)

func normalizeToken(s string) string {
	return refdata.NormalizeToken(s)
}

// BuildProfile turns raw answers into a PreferenceProfile. It never fails:
// anything it cannot read falls back to the no-preference default.
func BuildProfile(answers Answers) PreferenceProfile {
	if answers == nil {
		answers = Answers{}
	}

	p := PreferenceProfile{
		Genres:            []string{},
		Budget:            Range{Min: 0, Max: BudgetCeiling},
		Months:            []time.Month{},
		Region:            RegionAnywhere,
		Vibes:             []string{},
		CrowdSize:         CrowdAny,
		TravelFlexibility: FlexibilityMedium,
	}

	if raw, ok := answers["genres"]; ok {
		p.Genres = parseTokens(raw)
	}
	if raw, ok := answers["vibes"]; ok {
		p.Vibes = parseTokens(raw)
	}

	p.Budget, p.BudgetSpecified = parseBudget(answers)

	if raw, ok := answers["months"]; ok {
		p.Months = parseMonths(raw)
	}

	if raw, ok := answers["region"]; ok {
		if tokens := parseTokens(raw); len(tokens) > 0 {
			p.Region = tokens[0]
		}
	}

	if raw, ok := answers["crowdSize"]; ok {
		if s, ok := raw.(string); ok {
			if c := ParseCrowdSize(normalizeToken(s)); c != CrowdUnknown {
				p.CrowdSize = c
			}
		}
	}

	if raw, ok := answers["travelFlexibility"]; ok {
		p.TravelFlexibility = parseFlexibility(raw)
	}

	p.Needs = parseNeeds(answers)

	if raw, ok := answers["maxDays"]; ok {
		if n, ok := parseNumber(raw); ok && n > 0 {
			p.MaxDays = int(n)
		}
	}

	p.BudgetFlexibility = budgetFlexibility(p.Budget, p.BudgetSpecified)
	if n := len(p.Genres); n > 0 {
		p.GenreSpecificity = 1 / float64(n)
	}

	return p
}

// parseTokens accepts a list or a comma-separated string and returns
// normalized, de-duplicated tokens in input order. No-preference markers are dropped.
func parseTokens(raw interface{}) []string {
	result := []string{}
	seen := make(map[string]bool)

	add := func(s string) {
		t := normalizeToken(s)
		if t == "" || seen[t] || noPreference[t] {
			return
		}
		seen[t] = true
		result = append(result, t)
	}

	switch v := raw.(type) {
	case string:
		for _, part := range strings.Split(v, ",") {
			add(part)
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case []string:
		for _, s := range v {
			add(s)
		}
	}

	return result
}

func parseMonths(raw interface{}) []time.Month {
	seen := make(map[time.Month]bool)

	add := func(item interface{}) {
		switch v := item.(type) {
		case string:
			t := normalizeToken(v)
			if ms, ok := seasons[t]; ok {
				for _, m := range ms {
					seen[m] = true
				}
				return
			}
			if m, ok := refdata.ParseMonth(t); ok {
				seen[m] = true
			}
		default:
			if n, ok := parseNumber(v); ok && n >= 1 && n <= 12 && n == math.Trunc(n) {
				seen[time.Month(int(n))] = true
			}
		}
	}

	switch v := raw.(type) {
	case string:
		for _, part := range strings.Split(v, ",") {
			add(part)
		}
	case []interface{}:
		for _, item := range v {
			add(item)
		}
	case []string:
		for _, s := range v {
			add(s)
		}
	default:
		add(v)
	}

	months := make([]time.Month, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months
}

func parseBudget(answers Answers) (Range, bool) {
	r := Range{Min: 0, Max: BudgetCeiling}
	specified := false

	if raw, ok := answers["budget"]; ok {
		switch v := raw.(type) {
		case map[string]interface{}:
			if n, ok := parseNumber(v["min"]); ok {
				r.Min, specified = n, true
			}
			if n, ok := parseNumber(v["max"]); ok {
				r.Max, specified = n, true
			}
		case string:
			if parsed, ok := parseBudgetString(v); ok {
				r, specified = parsed, true
			}
		default:
			if n, ok := parseNumber(v); ok {
				r.Max, specified = n, true
			}
		}
	}

	if n, ok := parseNumber(answers["budgetMin"]); ok {
		r.Min, specified = n, true
	}
	if n, ok := parseNumber(answers["budgetMax"]); ok {
		r.Max, specified = n, true
	}

	r.Min = math.Max(0, r.Min)
	r.Max = math.Max(0, r.Max)
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r, specified
}

func parseBudgetString(s string) (Range, bool) {
	token := normalizeToken(s)
	if token == "" || noPreference[token] {
		return Range{}, false
	}
	if r, ok := budgetTiers[token]; ok {
		return r, true
	}

	matches := amountPattern.FindAllStringSubmatch(s, -1)
	amounts := make([]float64, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if m[2] != "" {
			n *= 1000
		}
		amounts = append(amounts, n)
	}

	lower := strings.ToLower(s)
	switch {
	case len(amounts) >= 2:
		return Range{Min: amounts[0], Max: amounts[1]}, true
	case len(amounts) == 1:
		if strings.Contains(lower, "+") || strings.Contains(lower, "plus") ||
			strings.Contains(lower, "over") || strings.Contains(lower, "above") {
			return Range{Min: amounts[0], Max: BudgetCeiling}, true
		}
		return Range{Min: 0, Max: amounts[0]}, true
	default:
		return Range{}, false
	}
}

// parseNumber reads JSON numbers, Go ints and currency strings like "$1,200".
func parseNumber(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	case string:
		cleaned := strings.TrimSpace(v)
		for _, sym := range []string{"$", "€", "£", "USD", "usd", "EUR", "eur", ",", " "} {
			cleaned = strings.ReplaceAll(cleaned, sym, "")
		}
		if cleaned == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func parseBool(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch normalizeToken(v) {
		case "true", "yes", "y", "1", "required", "must-have":
			return true
		}
		return false
	default:
		n, ok := parseNumber(v)
		return ok && n != 0
	}
}

func parseFlexibility(raw interface{}) TravelFlexibility {
	switch v := raw.(type) {
	case bool:
		if v {
			return FlexibilityHigh
		}
		return FlexibilityLow
	case string:
		switch normalizeToken(v) {
		case "low", "false", "no", "fixed", "local":
			return FlexibilityLow
		case "high", "true", "yes", "flexible", "very-flexible", "anywhere":
			return FlexibilityHigh
		}
	}
	return FlexibilityMedium
}

func parseNeeds(answers Answers) AmenityNeeds {
	var n AmenityNeeds
	if raw, ok := answers["familyFriendly"]; ok {
		n.FamilyFriendly = parseBool(raw)
	}
	if raw, ok := answers["camping"]; ok {
		n.Camping = parseBool(raw)
	}
	if raw, ok := answers["glamping"]; ok {
		n.Glamping = parseBool(raw)
	}
	if raw, ok := answers["accommodation"]; ok {
		for _, t := range parseTokens(raw) {
			switch t {
			case "camping", "tent":
				n.Camping = true
			case "glamping":
				n.Glamping = true
			case "family", "family-friendly", "kids":
				n.FamilyFriendly = true
			}
		}
	}
	return n
}

// budgetFlexibility is the width of the budget relative to its ceiling, in [0,1].
// An unspecified budget is fully flexible.
func budgetFlexibility(r Range, specified bool) float64 {
	if !specified {
		return 1
	}
	if r.Max <= 0 {
		return 0
	}
	return clamp(r.Width()/r.Max, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// Unanswered returns, in AllCriteria order, the criteria this profile leaves
// open. Each of them scores neutral for every candidate.
func (p PreferenceProfile) Unanswered() []Criterion {
	open := map[Criterion]bool{
		CriterionGenre:        len(p.Genres) == 0,
		CriterionBudget:       !p.BudgetSpecified,
		CriterionTiming:       len(p.Months) == 0,
		CriterionLocation:     p.Region == "" || p.Region == RegionAnywhere,
		CriterionVibe:         len(p.Vibes) == 0,
		CriterionExperience:   p.CrowdSize == CrowdAny || p.CrowdSize == CrowdUnknown,
		CriterionPracticality: p.Needs.Count() == 0 && p.MaxDays == 0,
	}
	out := []Criterion{}
	for _, c := range AllCriteria {
		if open[c] {
			out = append(out, c)
		}
	}
	return out
}
