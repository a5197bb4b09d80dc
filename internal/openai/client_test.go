package openai

import (
	"context"
	"encoding/json"
	"fmt"
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

func newTestClient(t *testing.T, apiKey, baseURL string) *Client {
	t.Helper()
	return NewClient(config.OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   "gpt-4o-mini",
		Timeout: 2000,
	}, logger.NewTestLogger(t))
}

func chatResponse(content string) string {
	resp := map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"choices": []map[string]interface{}{{"index": 0, "message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"}},
		"usage":   map[string]int{"prompt_tokens": 20, "completion_tokens": 40, "total_tokens": 60},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestCompleteJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)

		fmt.Fprint(w, chatResponse(`{"summary":"定例会議の要約","decisions":[],"nextActions":[]}`))
	}))
	defer srv.Close()

	doc, err := newTestClient(t, "sk-test", srv.URL).CompleteJSON(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"定例会議の要約","decisions":[],"nextActions":[]}`, string(doc))
}

func TestCompleteJSON_MissingKeyMakesNoCall(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	_, err := newTestClient(t, "", srv.URL).CompleteJSON(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfiguration))
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls))
}

func TestCompleteJSON_EmptyContentIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatResponse(""))
	}))
	defer srv.Close()

	_, err := newTestClient(t, "sk-test", srv.URL).CompleteJSON(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeProviderEmptyContent))
}

func TestCompleteJSON_NoChoicesIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"chatcmpl-test","choices":[]}`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, "sk-test", srv.URL).CompleteJSON(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeProviderEmptyContent))
}

func TestCompleteJSON_ProviderErrorMessagePassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"Rate limit reached for gpt-4o-mini","type":"requests"}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, "sk-test", srv.URL).CompleteJSON(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeProviderCallFailed))
	assert.Equal(t, "Rate limit reached for gpt-4o-mini", errors.PublicMessage(err))
}

func TestCompleteJSON_NonJSONContentIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatResponse("すみません、JSONでは回答できません。"))
	}))
	defer srv.Close()

	_, err := newTestClient(t, "sk-test", srv.URL).CompleteJSON(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeProviderBadJSON))
}

func TestCompleteJSON_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestClient(t, "sk-test", srv.URL).CompleteJSON(context.Background(), "s", "u")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeProviderCallFailed))
}
