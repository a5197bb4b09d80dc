// Package validation checks provider JSON output against endpoint schemas.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateDocument validates a JSON document against a JSON-schema string.
func ValidateDocument(document []byte, schema string) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}, nil
	}

	out := &ValidationResult{Valid: false}
	for _, resErr := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   resErr.Field(),
			Message: resErr.Description(),
		})
	}
	return out, nil
}

// Summarize flattens validation errors into a single details string.
func (r *ValidationResult) Summarize() string {
	if r.Valid {
		return ""
	}
	details := ""
	for i, e := range r.Errors {
		if i > 0 {
			details += "; "
		}
		details += fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return details
}
