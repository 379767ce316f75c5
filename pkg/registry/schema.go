// pkg/registry/schema.go
package registry

import "encoding/json"

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity documents one job worker for process modellers.
type Activity struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"displayName"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	TaskType    string          `json:"taskType"`
	Persists    bool            `json:"persists"`
	InputSchema json.RawMessage `json:"inputSchema"`
	ErrorCodes  []string        `json:"errorCodes"`
	Timeout     string          `json:"timeout"`
	Retries     int             `json:"retries"`
	Tags        []string        `json:"tags,omitempty"`
}
