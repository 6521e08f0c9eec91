// internal/workers/matching/build-preference-profile/models.go
package buildpreferenceprofile

import "festival-matcher/internal/matching"

type Input struct {
	RequestID string           `json:"requestId,omitempty"`
	Answers   matching.Answers `json:"answers"`
}

type Output struct {
	RequestID string                     `json:"requestId,omitempty"`
	Profile   matching.PreferenceProfile `json:"profile"`
	Weights   matching.Weights           `json:"weights"`
	// Unanswered lists criteria that will score neutral for this profile.
	Unanswered []matching.Criterion `json:"unanswered"`
}

const inputSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"requestId": {"type": "string"},
		"answers": {"type": ["object", "null"]}
	}
}`
