// internal/research/types.go
package research

import (
	"time"

	"fantasy-research/internal/models"
)

// Query is a single research question, built once and never mutated.
type Query struct {
	Category  models.Category `json:"category"`
	SubjectID string          `json:"subjectId,omitempty"`
	Prompt    string          `json:"prompt"`
}

// Result is an answer from the research API with its heuristic confidence.
type Result struct {
	Content    string    `json:"content"`
	Citations  []string  `json:"citations"`
	Confidence float64   `json:"confidence"`
	Model      string    `json:"model,omitempty"`
	AnsweredAt time.Time `json:"answeredAt"`
}

// Insight is the persisted form of a Result. Rows are append-only.
type Insight struct {
	ID           string          `json:"id"`
	QueryType    models.Category `json:"queryType"`
	QueryText    string          `json:"queryText"`
	ResponseJSON string          `json:"responseJson"`
	Confidence   float64         `json:"confidenceScore"`
	Week         int             `json:"week"`
	IsActionable bool            `json:"isActionable"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Status distinguishes the ways a research call can end.
type Status int

const (
	StatusAnswered Status = iota
	StatusDisabled
	StatusUpstreamFailed
)

func (s Status) String() string {
	switch s {
	case StatusAnswered:
		return "answered"
	case StatusDisabled:
		return "disabled"
	case StatusUpstreamFailed:
		return "upstream_failed"
	default:
		return "unknown"
	}
}

// Outcome is the explicit result of one research round-trip. Result is set
// only when Status is StatusAnswered; Err only when StatusUpstreamFailed.
type Outcome struct {
	Status Status
	Result *Result
	Err    error
}

func answered(r *Result) Outcome {
	return Outcome{Status: StatusAnswered, Result: r}
}

func disabled() Outcome {
	return Outcome{Status: StatusDisabled}
}

func failed(err error) Outcome {
	return Outcome{Status: StatusUpstreamFailed, Err: err}
}
