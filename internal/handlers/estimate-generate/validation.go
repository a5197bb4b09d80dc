package estimategenerate

import (
	"strings"

	"site-api/internal/common/errors"
)

const maxInputLength = 4000

// OutputSchema describes the quotation document the provider is asked to
// return. Amount fields are left untyped: the model sometimes emits numbers
// and sometimes formatted strings, and both render fine downstream.
const OutputSchema = `{
	"type": "object",
	"required": ["projectType", "requestDetails", "estimate", "pastEstimates", "analysis", "suggestions"],
	"properties": {
		"projectType": {"type": "string", "minLength": 1},
		"requestDetails": {
			"type": "object",
			"required": ["item"],
			"properties": {
				"item": {"type": "string"},
				"description": {"type": "string"},
				"quantity": {},
				"deadline": {"type": "string"}
			}
		},
		"estimate": {
			"type": "object",
			"required": ["breakdown", "subtotal", "tax", "total"],
			"properties": {
				"breakdown": {
					"type": "array",
					"minItems": 1,
					"items": {
						"type": "object",
						"required": ["category", "items"],
						"properties": {
							"category": {"type": "string"},
							"items": {
								"type": "array",
								"items": {
									"type": "object",
									"required": ["name"],
									"properties": {
										"name": {"type": "string"},
										"unitPrice": {},
										"quantity": {},
										"amount": {}
									}
								}
							}
						}
					}
				},
				"subtotal": {},
				"tax": {},
				"total": {},
				"validityPeriod": {"type": "string"},
				"notes": {"type": "array", "items": {"type": "string"}}
			}
		},
		"pastEstimates": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"date": {"type": "string"},
					"description": {"type": "string"},
					"quantity": {},
					"unitPrice": {},
					"total": {}
				}
			}
		},
		"analysis": {
			"type": "object",
			"properties": {
				"currentUnitPrice": {},
				"priceConsistency": {"type": "string"},
				"profitMargin": {},
				"profitComment": {"type": "string"}
			}
		},
		"suggestions": {"type": "array", "items": {"type": "string"}}
	}
}`

func ValidateInput(input *Input) error {
	text := strings.TrimSpace(input.Input)
	if text == "" {
		return errors.NewValidationFailedError("input is required")
	}
	if len(input.Input) > maxInputLength {
		return errors.NewValidationFailedError("input is too long")
	}
	return nil
}
