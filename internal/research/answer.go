// internal/research/answer.go
package research

const (
	MessageDisabled    = "research is disabled"
	MessageUnavailable = "research is temporarily unavailable"
)

// Answer is the job-facing shape of a research call. A missing result is a
// normal outcome, so callers always get an Answer rather than an error.
type Answer struct {
	Available bool    `json:"available"`
	Result    *Result `json:"result,omitempty"`
	Message   string  `json:"message,omitempty"`
}

// NewAnswer wraps result, explaining its absence from the gate state.
func NewAnswer(enabled bool, result *Result) Answer {
	switch {
	case result != nil:
		return Answer{Available: true, Result: result}
	case !enabled:
		return Answer{Message: MessageDisabled}
	default:
		return Answer{Message: MessageUnavailable}
	}
}
