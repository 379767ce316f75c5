// internal/workers/research/waiver-recommendations/models.go
package waiverrecommendations

import (
	"fantasy-research/internal/models"
	"fantasy-research/internal/research"
)

const InputSchema = `{
	"type": "object",
	"required": ["available"],
	"properties": {
		"roster": {"type": "array", "items": {"$ref": "#/definitions/player"}},
		"available": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/player"}},
		"faabBudget": {"type": ["number", "null"], "minimum": 0}
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

type Input struct {
	Roster     []models.Player `json:"roster,omitempty"`
	Available  []models.Player `json:"available"`
	FAABBudget *float64        `json:"faabBudget,omitempty"`
}

type Output struct {
	research.Answer
}
