package estimategenerate

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

const promptKind = "estimate"

const systemPrompt = `あなたは見積もり作成の専門家です。

【タスク】
1. ユーザーの入力から業界・業態を判断
2. その業界の過去見積もりデータを3件生成（架空でリアルなデータ）
3. 過去データを参考に、今回の見積書を作成
4. 過去データとの比較分析を行う

【重要】
- 金額は現実的な範囲で設定
- 過去データは日付、数量、単価、合計を含める
- 業界用語を適切に使用
- 利益率は業界標準を考慮`

const userPromptTemplate = `以下の条件で見積書を作成してください。

【入力内容】
%s

【出力フォーマット（JSON）】
{
  "projectType": "業界・業態（例：金属加工、Web制作、建設工事など）",
  "requestDetails": {
    "item": "品目・サービス名",
    "description": "詳細説明（1-2行）",
    "quantity": "数量",
    "deadline": "納期"
  },
  "estimate": {
    "breakdown": [
      {
        "category": "費目名",
        "items": [
          {
            "name": "項目名",
            "unitPrice": "単価（数値）",
            "quantity": "数量（数値）",
            "amount": "金額（数値）"
          }
        ]
      }
    ],
    "subtotal": "小計（数値）",
    "tax": "消費税（数値）",
    "total": "合計（数値）",
    "validityPeriod": "有効期限",
    "notes": ["備考1", "備考2"]
  },
  "pastEstimates": [
    {
      "date": "YYYY年MM月",
      "description": "案件の簡単な説明",
      "quantity": "数量",
      "unitPrice": "単価（数値）",
      "total": "合計金額（数値）"
    }
  ],
  "analysis": {
    "currentUnitPrice": "今回の単価（数値）",
    "priceConsistency": "過去との整合性についてのコメント",
    "profitMargin": "想定利益率（パーセンテージ）",
    "profitComment": "利益率についてのコメント"
  },
  "suggestions": ["提案1", "提案2"]
}`

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

// Execute turns free-text quotation conditions into the structured estimate
// document and relays it verbatim.
func (s *Service) Execute(ctx context.Context, input *Input) (json.RawMessage, error) {
	s.logger.Info("Executing estimate generation", map[string]interface{}{
		"inputLength": len(input.Input),
	})

	doc, err := s.completions.CompleteJSON(ctx, systemPrompt, fmt.Sprintf(userPromptTemplate, input.Input))
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
