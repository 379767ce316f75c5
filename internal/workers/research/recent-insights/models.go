// internal/workers/research/recent-insights/models.go
package recentinsights

import "fantasy-research/internal/research"

const InputSchema = `{
	"type": "object",
	"properties": {
		"category": {"type": "string"},
		"limit": {"type": "integer"}
	}
}`

// Input selects stored insights. An empty category lists all of them; limit
// is clamped by the store's limit policy.
type Input struct {
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type Output struct {
	Insights []research.Insight `json:"insights"`
	Count    int                `json:"count"`
}
