// Package recaptcha verifies client tokens against the reCAPTCHA v3
// siteverify endpoint. A request without a token skips verification; a
// request with one must score at or above the configured threshold.
package recaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"site-api/internal/common/config"
	"site-api/internal/common/errors"
	commonhttp "site-api/internal/common/http"
	"site-api/internal/common/logger"
	"site-api/internal/common/metrics"
)

// TokenVerifier is what route middleware depends on; satisfied by *Verifier.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) error
}

// SiteverifyResponse mirrors the Google siteverify response body.
type SiteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

type Verifier struct {
	secretKey string
	verifyURL string
	threshold float64
	client    *commonhttp.Client
	logger    logger.Logger
}

func NewVerifier(cfg config.RecaptchaConfig, log logger.Logger) *Verifier {
	return &Verifier{
		secretKey: cfg.SecretKey,
		verifyURL: cfg.VerifyURL,
		threshold: cfg.ScoreThreshold,
		client:    commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		logger:    log.WithFields(map[string]interface{}{"component": "recaptcha"}),
	}
}

// Verify checks the supplied token. An empty token passes through: the gate
// degrades gracefully when the widget did not produce one. Every failure mode
// of a supplied token — transport error, bad body, failed check, low score —
// is a rejection, never a server fault.
func (v *Verifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		metrics.VerificationChecksTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	result, err := v.siteverify(ctx, token)
	if err != nil {
		v.logger.Warn("siteverify call failed", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.VerificationChecksTotal.WithLabelValues("error").Inc()
		return errors.NewVerificationRejectedError(err.Error())
	}

	if !result.Success {
		metrics.VerificationChecksTotal.WithLabelValues("rejected").Inc()
		return errors.NewVerificationRejectedError(
			fmt.Sprintf("check failed, error-codes: %v", result.ErrorCodes))
	}
	if result.Score < v.threshold {
		metrics.VerificationChecksTotal.WithLabelValues("rejected").Inc()
		return errors.NewVerificationRejectedError(
			fmt.Sprintf("score %.2f below threshold %.2f", result.Score, v.threshold))
	}

	metrics.VerificationChecksTotal.WithLabelValues("accepted").Inc()
	return nil
}

func (v *Verifier) siteverify(ctx context.Context, token string) (*SiteverifyResponse, error) {
	params := url.Values{}
	params.Set("secret", v.secretKey)
	params.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("siteverify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("siteverify status %d", resp.StatusCode)
	}

	var result SiteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode siteverify response: %w", err)
	}

	return &result, nil
}
