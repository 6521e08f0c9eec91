// pkg/refdata/defaults.go
package refdata

import (
	"strconv"
	"strings"
	"time"
)

func defaultTables() *Tables {
	return &Tables{
		Version:     "1.0.0",
		LastUpdated: "2026-01-01",
		GenreAffinity: map[string][]string{
			"electronic": {"techno", "house", "edm", "trance", "drum-and-bass"},
			"techno":     {"house", "minimal"},
			"house":      {"disco", "deep-house"},
			"edm":        {"dubstep", "trance"},
			"rock":       {"indie", "alternative", "punk", "metal"},
			"indie":      {"alternative", "folk"},
			"metal":      {"punk", "hardcore"},
			"hip-hop":    {"rap", "r-and-b", "urban"},
			"pop":        {"indie-pop", "dance"},
			"jazz":       {"blues", "soul", "funk"},
			"folk":       {"world", "acoustic", "country"},
			"reggae":     {"dub", "ska"},
			"classical":  {"opera", "orchestral"},
		},
		RegionCountries: map[string][]string{
			"western-europe":  {"united-kingdom", "ireland", "france", "belgium", "netherlands", "germany", "switzerland", "austria", "luxembourg"},
			"northern-europe": {"denmark", "norway", "sweden", "finland", "iceland"},
			"southern-europe": {"spain", "portugal", "italy", "greece", "croatia", "malta"},
			"eastern-europe":  {"poland", "czech-republic", "hungary", "romania", "serbia", "bulgaria", "slovakia"},
			"north-america":   {"united-states", "canada", "mexico"},
			"south-america":   {"brazil", "argentina", "chile", "colombia", "peru"},
			"asia":            {"japan", "south-korea", "thailand", "india", "china", "indonesia"},
			"oceania":         {"australia", "new-zealand"},
			"africa":          {"morocco", "south-africa", "kenya", "ghana", "nigeria"},
		},
		RegionNeighbors: map[string][]string{
			"western-europe":  {"northern-europe", "southern-europe", "eastern-europe"},
			"northern-europe": {"eastern-europe"},
			"southern-europe": {"eastern-europe", "africa"},
			"north-america":   {"south-america"},
			"asia":            {"oceania"},
		},
		SeasonalDesirability: map[string]float64{
			"january":   45,
			"february":  45,
			"march":     48,
			"april":     52,
			"may":       56,
			"june":      60,
			"july":      60,
			"august":    60,
			"september": 55,
			"october":   50,
			"november":  46,
			"december":  47,
		},
	}
}

// NormalizeToken lower-cases a free-form label and folds spaces and
// underscores into single hyphens ("United Kingdom" -> "united-kingdom").
func NormalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '_' || r == '-' || r == '/':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		case r == '&':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteString("and-")
			lastHyphen = true
		default:
			b.WriteRune(r)
			lastHyphen = false
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// ParseMonth accepts full names, three-letter abbreviations and 1-12.
func ParseMonth(s string) (time.Month, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), true
		}
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return m, true
		}
	}
	return 0, false
}
