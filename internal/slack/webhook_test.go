package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-api/internal/common/config"
	"site-api/internal/common/errors"
	"site-api/internal/common/logger"
)

func newTestWebhookClient(t *testing.T, url string) *WebhookClient {
	t.Helper()
	return NewWebhookClient(config.SlackConfig{WebhookURL: url, Timeout: 2000}, logger.NewTestLogger(t))
}

func TestPost_DeliversSectionMessage(t *testing.T) {
	var received Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	msg := SectionMessage("<!channel> *New Contact Form Submission*", "<!channel> *New Contact Form Submission*\n\n*Name:*\nTaro")
	err := newTestWebhookClient(t, srv.URL).Post(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, "<!channel> *New Contact Form Submission*", received.Text)
	require.Len(t, received.Blocks, 1)
	assert.Equal(t, "section", received.Blocks[0].Type)
	require.NotNil(t, received.Blocks[0].Text)
	assert.Equal(t, "mrkdwn", received.Blocks[0].Text.Type)
	assert.Contains(t, received.Blocks[0].Text.Text, "*Name:*\nTaro")
}

func TestPost_NonSuccessStatusIsRelayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no_service"))
	}))
	defer srv.Close()

	err := newTestWebhookClient(t, srv.URL).Post(context.Background(), SectionMessage("x", "x"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRelayFailed))
}

func TestPost_NetworkErrorIsRelayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := newTestWebhookClient(t, srv.URL).Post(context.Background(), SectionMessage("x", "x"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRelayFailed))
}

func TestPost_UnconfiguredWebhookIsConfigurationError(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	c := newTestWebhookClient(t, "")
	assert.False(t, c.Configured())

	err := c.Post(context.Background(), SectionMessage("x", "x"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfiguration))
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls))
}
