package meetingsummary

import (
	"context"
	"encoding/json"
	"fmt"

	"site-api/internal/common/errors"
	"site-api/internal/common/logger"
	"site-api/internal/common/metrics"
	"site-api/internal/common/validation"
	"site-api/internal/openai"
)

const promptKind = "meeting_summary"

const systemPrompt = "あなたは優秀なプロジェクトマネージャーのアシスタントです。会議メモを読み、JSON形式で出力してください。"

const userPromptTemplate = `以下の会議メモを読み、JSON形式で出力してください。

出力フォーマット:
{
  "summary": "会議の要約（200文字以内）",
  "decisions": ["決定事項1", "決定事項2", ...],
  "nextActions": ["担当者：アクション内容（期限）", ...]
}

会議メモ:
%s`

type Service struct {
	config      *Config
	logger      logger.Logger
	completions openai.CompletionService
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:      config,
		logger:      deps.Logger,
		completions: deps.Completions,
	}
}

// Execute summarizes the meeting notes into the widget's JSON document. The
// provider's document is relayed verbatim.
func (s *Service) Execute(ctx context.Context, input *Input) (json.RawMessage, error) {
	s.logger.Info("Executing meeting summary", map[string]interface{}{
		"textLength": len(input.Text),
	})

	doc, err := s.completions.CompleteJSON(ctx, systemPrompt, fmt.Sprintf(userPromptTemplate, input.Text))
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(promptKind, "error").Inc()
		return nil, err
	}

	if s.config.ValidateOutput {
		result, err := validation.ValidateDocument(doc, OutputSchema)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if !result.Valid {
			metrics.ProviderCallsTotal.WithLabelValues(promptKind, "bad_schema").Inc()
			s.logger.Warn("provider response failed schema validation", map[string]interface{}{
				"errors": result.Summarize(),
			})
			return nil, errors.NewProviderBadSchemaError(result.Summarize())
		}
	}

	metrics.ProviderCallsTotal.WithLabelValues(promptKind, "success").Inc()
	return doc, nil
}
