// internal/workers/research/contextual-queries/models.go
package contextualqueries

import (
	"fantasy-research/internal/models"
	"fantasy-research/internal/research"
)

const InputSchema = `{
	"type": "object",
	"required": ["roster"],
	"properties": {
		"roster": {"type": "array", "items": {"$ref": "#/definitions/player"}},
		"matchups": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"required": ["opponent"],
				"properties": {"opponent": {"type": "string"}}
			}
		},
		"league": {
			"type": "object",
			"properties": {"currentWeek": {"type": "integer"}}
		},
		"answer": {"type": "boolean"}
	},
	"definitions": {
		"player": {
			"type": "object",
			"required": ["name", "position"],
			"properties": {
				"name": {"type": "string", "minLength": 1},
				"position": {"type": "string"},
				"positionType": {"type": "string"},
				"status": {"type": "string"},
				"nflTeam": {"type": "string"}
			}
		}
	}
}`

// Input describes a roster snapshot. With no league week the stored current
// week is used. Answer asks every generated query as well.
type Input struct {
	Roster   []models.Player   `json:"roster"`
	Matchups models.MatchupMap `json:"matchups,omitempty"`
	League   *models.League    `json:"league,omitempty"`
	Answer   bool              `json:"answer,omitempty"`
}

type Output struct {
	Queries []research.Query         `json:"queries"`
	Count   int                      `json:"count"`
	Week    int                      `json:"week"`
	Answers []research.AnsweredQuery `json:"answers,omitempty"`
}
