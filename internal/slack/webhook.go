package slack

import (
	"context"
	"fmt"
	"io"
	"time"

	"site-api/internal/common/config"
	"site-api/internal/common/errors"
	httpclient "site-api/internal/common/http"
	"site-api/internal/common/logger"
	"site-api/internal/common/metrics"
)

// Notifier delivers a message to a Slack channel.
type Notifier interface {
	Post(ctx context.Context, msg *Message) error
	Configured() bool
}

// Message is an incoming-webhook payload. Text is the notification fallback
// shown in clients that do not render blocks.
type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

type Block struct {
	Type string     `json:"type"`
	Text *BlockText `json:"text,omitempty"`
}

type BlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SectionMessage builds a single-section mrkdwn message with the given
// fallback text.
func SectionMessage(fallback, body string) *Message {
	return &Message{
		Text: fallback,
		Blocks: []Block{
			{
				Type: "section",
				Text: &BlockText{Type: "mrkdwn", Text: body},
			},
		},
	}
}

// WebhookClient posts messages to a Slack incoming webhook URL.
type WebhookClient struct {
	webhookURL string
	client     *httpclient.Client
	logger     logger.Logger
}

func NewWebhookClient(cfg config.SlackConfig, log logger.Logger) *WebhookClient {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookClient{
		webhookURL: cfg.WebhookURL,
		client:     httpclient.NewClient(timeout),
		logger:     log,
	}
}

// Configured reports whether a webhook URL is set. Callers decide how to
// surface an unconfigured relay; the client itself never panics over it.
func (c *WebhookClient) Configured() bool {
	return c.webhookURL != ""
}

// Post sends the message to the webhook. Slack answers incoming webhooks with
// a plain "ok" body, so anything outside the 2xx range is a delivery failure.
func (c *WebhookClient) Post(ctx context.Context, msg *Message) error {
	if !c.Configured() {
		return errors.NewConfigurationError("slack.webhook_url")
	}

	resp, err := c.client.PostJSON(ctx, c.webhookURL, msg, nil)
	if err != nil {
		metrics.RelayDeliveriesTotal.WithLabelValues("slack", "error").Inc()
		c.logger.WithError(err).Error("Slack webhook request failed", nil)
		return errors.NewRelayFailedError("slack", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		metrics.RelayDeliveriesTotal.WithLabelValues("slack", "error").Inc()
		c.logger.WithFields(map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("Slack webhook rejected message", nil)
		return errors.NewRelayFailedError("slack", fmt.Errorf("webhook returned status %d", resp.StatusCode))
	}

	metrics.RelayDeliveriesTotal.WithLabelValues("slack", "success").Inc()
	c.logger.Debug("Slack message delivered", nil)
	return nil
}
