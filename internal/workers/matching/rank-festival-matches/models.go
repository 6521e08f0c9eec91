// internal/workers/matching/rank-festival-matches/models.go
package rankfestivalmatches

import "festival-matcher/internal/matching"

// Input carries the quiz answers and, optionally, the festivals to rank.
// Without candidates the loaded catalog is used.
type Input struct {
	RequestID  string               `json:"requestId,omitempty"`
	Answers    matching.Answers     `json:"answers"`
	Candidates []matching.Candidate `json:"candidates,omitempty"`
	Limit      *int                 `json:"limit,omitempty"`
}

type Output struct {
	RequestID        string                 `json:"requestId"`
	Matches          []matching.MatchResult `json:"matches"`
	TopMatchID       string                 `json:"topMatchId,omitempty"`
	Weights          matching.Weights       `json:"weights"`
	CandidatesScored int                    `json:"candidatesScored"`
	EligibleCount    int                    `json:"eligibleCount"`
	Skipped          int                    `json:"skipped"`
	CatalogVersion   string                 `json:"catalogVersion,omitempty"`
	Cached           bool                   `json:"cached"`
}

const inputSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"requestId": {"type": "string"},
		"answers": {"type": ["object", "null"]},
		"candidates": {
			"type": ["array", "null"],
			"items": {"type": "object"}
		},
		"limit": {"type": ["integer", "null"]}
	}
}`
