package samplegenerate

import (
	"site-api/internal/common/logger"
	"site-api/internal/openai"
)

// Input has no content fields: the endpoint fabricates its own conditions.
// RecaptchaToken is consumed by the verification middleware.
type Input struct {
	RecaptchaToken string `json:"recaptchaToken,omitempty"`
}

type ServiceDependencies struct {
	Logger      logger.Logger
	Completions openai.CompletionService
}
