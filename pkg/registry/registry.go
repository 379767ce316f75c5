// pkg/registry/registry.go
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "fantasy-research/internal/common/errors"
	"fantasy-research/internal/common/validation"

	cq "fantasy-research/internal/workers/research/contextual-queries"
	et "fantasy-research/internal/workers/research/evaluate-trade"
	nc "fantasy-research/internal/workers/research/news-context"
	ri "fantasy-research/internal/workers/research/recent-insights"
	rq "fantasy-research/internal/workers/research/research-query"
	si "fantasy-research/internal/workers/research/search-insights"
	ss "fantasy-research/internal/workers/research/start-sit"
	wr "fantasy-research/internal/workers/research/waiver-recommendations"
)

const Version = "1.0.0"

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

func SaveRegistry(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create registry dir: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Catalog describes every worker this module ships.
func Catalog() *ActivityRegistry {
	answerCodes := codes(apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInternal)
	activity := func(taskType, name, description, schema string, timeout time.Duration, persists bool, errs []string) Activity {
		return Activity{
			ID:          taskType,
			DisplayName: name,
			Description: description,
			Category:    "research",
			TaskType:    taskType,
			Persists:    persists,
			InputSchema: compact(schema),
			ErrorCodes:  errs,
			Timeout:     timeout.String(),
			Retries:     maxRetries(errs),
		}
	}

	return &ActivityRegistry{
		Version: Version,
		Activities: []Activity{
			activity(rq.TaskType, "Research Query", "Answers a free-text fantasy question.",
				rq.InputSchema, rq.LoadConfig().Timeout, false, answerCodes),
			activity(ss.TaskType, "Start/Sit Analysis", "Assesses the current lineup.",
				ss.InputSchema, ss.LoadConfig().Timeout, true, answerCodes),
			activity(et.TaskType, "Evaluate Trade", "Grades a trade proposal against team needs.",
				et.InputSchema, et.LoadConfig().Timeout, true, answerCodes),
			activity(wr.TaskType, "Waiver Recommendations", "Ranks pickups from the available pool.",
				wr.InputSchema, wr.LoadConfig().Timeout, true, answerCodes),
			activity(nc.TaskType, "Breaking News Context", "Explains the fantasy impact of a headline.",
				nc.InputSchema, nc.LoadConfig().Timeout, false, answerCodes),
			activity(cq.TaskType, "Contextual Queries", "Generates, and optionally answers, roster questions.",
				cq.InputSchema, cq.LoadConfig().Timeout, true, codes(apperrors.ErrCodeInvalidInput)),
			activity(ri.TaskType, "Recent Insights", "Lists stored insights newest first.",
				ri.InputSchema, ri.LoadConfig().Timeout, false,
				codes(apperrors.ErrCodeInvalidInput, apperrors.ErrCodePersistenceFailure)),
			activity(si.TaskType, "Search Insights", "Full-text search over indexed insights.",
				si.InputSchema, si.LoadConfig().Timeout, false,
				codes(apperrors.ErrCodeInvalidInput, apperrors.ErrCodeSearchQueryFailed)),
		},
	}
}

// Validate checks required fields, unique IDs and that every input schema compiles.
func Validate(reg *ActivityRegistry) error {
	if len(reg.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	for _, activity := range reg.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if _, err := time.ParseDuration(activity.Timeout); err != nil {
			return fmt.Errorf("activity %s has invalid timeout %q", activity.ID, activity.Timeout)
		}
		if len(activity.InputSchema) > 0 {
			if _, err := validation.Compile(string(activity.InputSchema)); err != nil {
				return fmt.Errorf("activity %s: %w", activity.ID, err)
			}
		}
	}
	return nil
}

// Drift lists activities whose stored entry differs from want, plus any missing ones.
func Drift(stored, want *ActivityRegistry) []string {
	byID := make(map[string]Activity, len(stored.Activities))
	for _, a := range stored.Activities {
		byID[a.ID] = a
	}

	var drift []string
	for _, a := range want.Activities {
		got, ok := byID[a.ID]
		if !ok {
			drift = append(drift, a.ID+": missing")
			continue
		}
		gotJSON, _ := json.Marshal(got)
		wantJSON, _ := json.Marshal(a)
		if !bytes.Equal(gotJSON, wantJSON) {
			drift = append(drift, a.ID+": changed")
		}
	}
	return drift
}

func codes(cs ...apperrors.ErrorCode) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

func maxRetries(errs []string) int {
	max := 0
	for _, c := range errs {
		if n := apperrors.GetRetryCount(apperrors.ErrorCode(c)); n > max {
			max = n
		}
	}
	return max
}

func compact(schema string) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(schema)); err != nil {
		return json.RawMessage(schema)
	}
	return buf.Bytes()
}
