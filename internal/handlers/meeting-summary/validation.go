package meetingsummary

import (
	"strings"

	"site-api/internal/common/errors"
)

const maxTextLength = 20000

// OutputSchema describes the document the provider is asked to return.
// Checked only when validate_output is enabled.
const OutputSchema = `{
	"type": "object",
	"required": ["summary", "decisions", "nextActions"],
	"properties": {
		"summary": {"type": "string", "minLength": 1},
		"decisions": {"type": "array", "items": {"type": "string"}},
		"nextActions": {"type": "array", "items": {"type": "string"}}
	}
}`

func ValidateInput(input *Input) error {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return errors.NewValidationFailedError("text is required")
	}
	if len(input.Text) > maxTextLength {
		return errors.NewValidationFailedError("text is too long")
	}
	return nil
}
