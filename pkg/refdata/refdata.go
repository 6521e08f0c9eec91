// pkg/refdata/refdata.go
package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// DefaultSeasonalScore is used for months missing from the seasonal table.
const DefaultSeasonalScore = 45.0

// LoadTables reads reference tables from a JSON file. Sections left out of the
// file fall back to the built-in defaults.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var t Tables
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse reference data %s: %w", path, err)
	}

	def := defaultTables()
	if len(t.GenreAffinity) == 0 {
		t.GenreAffinity = def.GenreAffinity
	}
	if len(t.RegionCountries) == 0 {
		t.RegionCountries = def.RegionCountries
	}
	if len(t.RegionNeighbors) == 0 {
		t.RegionNeighbors = def.RegionNeighbors
	}
	if len(t.SeasonalDesirability) == 0 {
		t.SeasonalDesirability = def.SeasonalDesirability
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.index()
	return &t, nil
}

// Default returns the built-in reference tables.
func Default() *Tables {
	t := defaultTables()
	t.index()
	return t
}

// Validate checks that seasonal scores are in range and that neighbour
// entries only name regions that exist.
func (t *Tables) Validate() error {
	for month, score := range t.SeasonalDesirability {
		if _, ok := ParseMonth(month); !ok {
			return fmt.Errorf("seasonalDesirability: unknown month %q", month)
		}
		if score < 0 || score > 100 {
			return fmt.Errorf("seasonalDesirability[%s]: %v outside [0,100]", month, score)
		}
	}
	for region, neighbors := range t.RegionNeighbors {
		for _, n := range neighbors {
			if _, ok := t.RegionCountries[NormalizeToken(n)]; !ok {
				return fmt.Errorf("regionNeighbors[%s]: unknown region %q", region, n)
			}
		}
	}
	return nil
}

func (t *Tables) index() {
	t.affinity = make(map[string]map[string]struct{}, len(t.GenreAffinity))
	for genre, related := range t.GenreAffinity {
		g := NormalizeToken(genre)
		for _, r := range related {
			r = NormalizeToken(r)
			addPair(t.affinity, g, r)
			addPair(t.affinity, r, g)
		}
	}

	t.members = make(map[string]map[string]struct{}, len(t.RegionCountries))
	for region, countries := range t.RegionCountries {
		reg := NormalizeToken(region)
		for _, c := range countries {
			addPair(t.members, reg, NormalizeToken(c))
		}
	}

	t.neighbors = make(map[string]map[string]struct{}, len(t.RegionNeighbors))
	for region, near := range t.RegionNeighbors {
		reg := NormalizeToken(region)
		for _, n := range near {
			n = NormalizeToken(n)
			addPair(t.neighbors, reg, n)
			addPair(t.neighbors, n, reg)
		}
	}

	t.seasonal = make(map[string]float64, len(t.SeasonalDesirability))
	for month, score := range t.SeasonalDesirability {
		if m, ok := ParseMonth(month); ok {
			t.seasonal[strings.ToLower(m.String())] = score
		}
	}
}

func addPair(m map[string]map[string]struct{}, a, b string) {
	if a == "" || b == "" || a == b {
		return
	}
	set, ok := m[a]
	if !ok {
		set = make(map[string]struct{})
		m[a] = set
	}
	set[b] = struct{}{}
}

// Affine reports whether two genres are related through the affinity table.
// Affinity is symmetric.
func (t *Tables) Affine(a, b string) bool {
	_, ok := t.affinity[NormalizeToken(a)][NormalizeToken(b)]
	return ok
}

// InRegion reports whether country belongs to region.
func (t *Tables) InRegion(region, country string) bool {
	_, ok := t.members[NormalizeToken(region)][NormalizeToken(country)]
	return ok
}

// KnownRegion reports whether the region token is present in the membership table.
func (t *Tables) KnownRegion(region string) bool {
	_, ok := t.members[NormalizeToken(region)]
	return ok
}

// Neighbors reports whether two regions are adjacent.
func (t *Tables) Neighbors(a, b string) bool {
	_, ok := t.neighbors[NormalizeToken(a)][NormalizeToken(b)]
	return ok
}

// RegionsOf returns the sorted regions a country belongs to.
func (t *Tables) RegionsOf(country string) []string {
	c := NormalizeToken(country)
	var out []string
	for region, set := range t.members {
		if _, ok := set[c]; ok {
			out = append(out, region)
		}
	}
	sort.Strings(out)
	return out
}

// Seasonal returns the generic desirability score of a month.
func (t *Tables) Seasonal(m time.Month) float64 {
	if score, ok := t.seasonal[strings.ToLower(m.String())]; ok {
		return score
	}
	return DefaultSeasonalScore
}
