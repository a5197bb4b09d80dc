package estimategenerate

import (
	"site-api/internal/common/logger"
	"site-api/internal/openai"
)

// Input carries the free-text quotation conditions. RecaptchaToken is consumed
// by the verification middleware; it is decoded here so handlers tolerate it.
type Input struct {
	Input          string `json:"input"`
	RecaptchaToken string `json:"recaptchaToken,omitempty"`
}

type ServiceDependencies struct {
	Logger      logger.Logger
	Completions openai.CompletionService
}
