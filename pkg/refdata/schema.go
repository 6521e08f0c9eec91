// pkg/refdata/schema.go
package refdata

// Tables is the static reference data the scorers consult. It is built once
// and handed to the engine; nothing mutates it afterwards.
type Tables struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`

	// GenreAffinity lists, per genre, the genres that count as a partial match.
	GenreAffinity map[string][]string `json:"genreAffinity"`

	// RegionCountries maps a region token to its member countries.
	RegionCountries map[string][]string `json:"regionCountries"`

	// RegionNeighbors maps a region token to regions that earn partial location credit.
	RegionNeighbors map[string][]string `json:"regionNeighbors"`

	// SeasonalDesirability scores (0-100) each month by name when the user's
	// months don't line up with a festival's.
	SeasonalDesirability map[string]float64 `json:"seasonalDesirability"`

	affinity  map[string]map[string]struct{}
	members   map[string]map[string]struct{}
	neighbors map[string]map[string]struct{}
	seasonal  map[string]float64
}
