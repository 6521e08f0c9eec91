// internal/catalog/schema.go
package catalog

import "festival-matcher/internal/common/validation"

const documentSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["festivals"],
	"properties": {
		"version": {"type": "string"},
		"festivals": {
			"type": "array",
			"items": {"$ref": "#/definitions/festival"}
		}
	},
	"definitions": {
		"festival": {
			"type": "object",
			"required": ["id", "name"],
			"properties": {
				"id": {"type": "string", "minLength": 1},
				"name": {"type": "string"},
				"city": {"type": "string"},
				"country": {"type": "string"},
				"region": {"type": "string"},
				"genres": {"type": "array", "items": {"type": "string"}},
				"vibes": {"type": "array", "items": {"type": "string"}},
				"cost": {
					"type": "object",
					"required": ["min", "max"],
					"properties": {
						"min": {"type": "number", "minimum": 0},
						"max": {"type": "number", "minimum": 0}
					}
				},
				"months": {
					"type": "array",
					"items": {
						"anyOf": [
							{"type": "integer", "minimum": 1, "maximum": 12},
							{"type": "string", "minLength": 3}
						]
					}
				},
				"durationDays": {"type": "integer", "minimum": 0},
				"crowdSize": {"enum": ["", "unknown", "intimate", "small", "medium", "large", "massive"]},
				"amenities": {
					"type": "object",
					"properties": {
						"familyFriendly": {"type": "boolean"},
						"camping": {"type": "boolean"},
						"glamping": {"type": "boolean"}
					}
				}
			}
		}
	}
}`

var schema = validation.MustCompile(documentSchema)
