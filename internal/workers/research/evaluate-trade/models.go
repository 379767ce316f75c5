// internal/workers/research/evaluate-trade/models.go
package evaluatetrade

import (
	"fantasy-research/internal/models"
	"fantasy-research/internal/research"
)

const InputSchema = `{
	"type": "object",
	"required": ["giving", "receiving"],
	"properties": {
		"giving": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/player"}},
		"receiving": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/player"}},
		"teamNeeds": {"type": "array", "items": {"type": "string"}},
		"roster": {"type": "array", "items": {"$ref": "#/definitions/player"}}
	},
	"definitions": {
		"player": {
			"type": "object",
			"required": ["name", "position"],
			"properties": {
				"name": {"type": "string", "minLength": 1},
				"position": {"type": "string"}
			}
		}
	}
}`

// Input carries the trade. When TeamNeeds is empty and Roster is given, needs
// are derived from the roster's depth.
type Input struct {
	Giving    []models.Player `json:"giving"`
	Receiving []models.Player `json:"receiving"`
	TeamNeeds []string        `json:"teamNeeds,omitempty"`
	Roster    []models.Player `json:"roster,omitempty"`
}

type Output struct {
	research.Answer
	TeamNeeds []string `json:"teamNeeds"`
}
