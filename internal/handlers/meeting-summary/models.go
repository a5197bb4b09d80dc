package meetingsummary

import (
	"site-api/internal/common/logger"
	"site-api/internal/openai"
)

// Input carries the raw meeting notes pasted into the demo widget.
type Input struct {
	Text string `json:"text"`
}

type ServiceDependencies struct {
	Logger      logger.Logger
	Completions openai.CompletionService
}
