// internal/workers/research/search-insights/models.go
package searchinsights

import "fantasy-research/internal/research"

const InputSchema = `{
	"type": "object",
	"properties": {
		"text": {"type": "string"},
		"category": {"type": "string"},
		"limit": {"type": "integer"}
	}
}`

type Input struct {
	Text     string `json:"text,omitempty"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type Output struct {
	Insights []research.IndexedInsight `json:"insights"`
	Count    int                       `json:"count"`
}
