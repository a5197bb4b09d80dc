// Package openai is a minimal chat-completions client used by the demo
// endpoints. All calls run in forced-JSON mode against a fixed model.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"site-api/internal/common/config"
	"site-api/internal/common/errors"
	commonhttp "site-api/internal/common/http"
	"site-api/internal/common/logger"
)

// CompletionService is the surface handlers depend on; satisfied by *Client.
type CompletionService interface {
	CompleteJSON(ctx context.Context, system, user string) (json.RawMessage, error)
}

type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *commonhttp.Client
	logger  logger.Logger
}

func NewClient(cfg config.OpenAIConfig, log logger.Logger) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		logger:  log.WithFields(map[string]interface{}{"component": "openai"}),
	}
}

// CompleteJSON sends a two-message prompt and returns the completion content
// as a raw JSON document. A missing API key is a configuration error raised
// before any outbound call. Empty content and content that does not parse as
// JSON are provider errors; nothing is retried.
func (c *Client) CompleteJSON(ctx context.Context, system, user string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, errors.NewConfigurationError("openai.api_key")
	}

	reqBody := &ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	resp, err := c.client.PostJSON(ctx, c.baseURL+"/chat/completions", reqBody, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	})
	if err != nil {
		return nil, errors.NewProviderCallFailedError(fmt.Errorf("completion request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewProviderCallFailedError(fmt.Errorf("read completion response: %w", err))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(raw, &chatResp); err != nil {
		return nil, errors.NewProviderCallFailedError(fmt.Errorf("decode completion response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != nil && chatResp.Error.Message != "" {
			return nil, errors.NewProviderCallFailedError(fmt.Errorf("%s", chatResp.Error.Message))
		}
		return nil, errors.NewProviderCallFailedError(fmt.Errorf("completion status %d", resp.StatusCode))
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return nil, errors.NewProviderEmptyContentError()
	}

	content := chatResp.Choices[0].Message.Content
	var doc json.RawMessage
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, errors.NewProviderBadJSONError(err)
	}

	c.logger.Debug("completion succeeded", map[string]interface{}{
		"model":            c.model,
		"promptTokens":     chatResp.Usage.PromptTokens,
		"completionTokens": chatResp.Usage.CompletionTokens,
	})

	return doc, nil
}
