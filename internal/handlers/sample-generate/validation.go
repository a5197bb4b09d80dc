package samplegenerate

// OutputSchema describes the pre-fill sample document. Checked only when
// validate_output is enabled.
const OutputSchema = `{
	"type": "object",
	"required": ["sampleText"],
	"properties": {
		"sampleText": {"type": "string", "minLength": 1}
	},
	"additionalProperties": false
}`
