// internal/workers/research/news-context/models.go
package newscontext

import "fantasy-research/internal/research"

const InputSchema = `{
	"type": "object",
	"required": ["headline"],
	"properties": {
		"headline": {"type": "string", "minLength": 1},
		"summary": {"type": "string"}
	}
}`

type Input struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary,omitempty"`
}

type Output struct {
	research.Answer
}
