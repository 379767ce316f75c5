// internal/common/validation/schema.go
package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	apperrors "fantasy-research/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins all errors into one line, sorted by field.
func (r *ValidationResult) Summary() string {
	if r == nil || r.Valid {
		return ""
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// Schema is a compiled JSON schema for job variables.
type Schema struct {
	schema *gojsonschema.Schema
}

// Compile parses a JSON schema document.
func Compile(schemaJSON string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile is Compile for package-level schemas known to be valid.
func MustCompile(schemaJSON string) *Schema {
	s, err := Compile(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a JSON document. A document that is not JSON at all is
// reported as a single PARSE_ERROR.
func (s *Schema) Validate(document string) *ValidationResult {
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(document))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "PARSE_ERROR",
			}},
		}
	}
	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return &ValidationResult{Valid: false, Errors: errs}
}

// ValidateJSON compiles schemaJSON and validates document against it.
func ValidateJSON(schemaJSON, document string) (*ValidationResult, error) {
	s, err := Compile(schemaJSON)
	if err != nil {
		return nil, err
	}
	return s.Validate(document), nil
}

// Decode validates document and unmarshals it into out. Any failure is an
// INVALID_INPUT error carrying the validation summary.
func (s *Schema) Decode(document string, out interface{}) error {
	if strings.TrimSpace(document) == "" {
		document = "{}"
	}
	if res := s.Validate(document); !res.Valid {
		return apperrors.NewInvalidInputError(res.Summary())
	}
	if err := json.Unmarshal([]byte(document), out); err != nil {
		return apperrors.NewInvalidInputError(fmt.Sprintf("decode variables: %v", err))
	}
	return nil
}
