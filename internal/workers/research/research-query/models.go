// internal/workers/research/research-query/models.go
package researchquery

import "fantasy-research/internal/research"

const InputSchema = `{
	"type": "object",
	"required": ["query"],
	"properties": {
		"query": {"type": "string", "minLength": 1}
	}
}`

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	research.Answer
}
