// internal/workers/research/start-sit/models.go
package startsit

import (
	"fantasy-research/internal/models"
	"fantasy-research/internal/research"
)

const InputSchema = `{
	"type": "object",
	"required": ["starters"],
	"properties": {
		"starters": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/player"}},
		"bench": {"type": "array", "items": {"$ref": "#/definitions/player"}}
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
	Starters []models.Player `json:"starters"`
	Bench    []models.Player `json:"bench,omitempty"`
}

type Output struct {
	research.Answer
}
