package recaptcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-api/internal/common/config"
	"site-api/internal/common/errors"
	"site-api/internal/common/logger"
)

func newTestVerifier(t *testing.T, verifyURL string) *Verifier {
	t.Helper()
	return NewVerifier(config.RecaptchaConfig{
		SecretKey:      "test-secret",
		VerifyURL:      verifyURL,
		ScoreThreshold: 0.5,
		Timeout:        2000,
	}, logger.NewTestLogger(t))
}

func TestVerify_ScoreAndSuccessMatrix(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantErr  bool
	}{
		{"success with high score accepts", `{"success": true, "score": 0.9}`, false},
		{"failed check dominates high score", `{"success": false, "score": 0.9}`, true},
		{"success with low score rejects", `{"success": true, "score": 0.3}`, true},
		{"threshold boundary is inclusive", `{"success": true, "score": 0.5}`, false},
		{"score just below threshold rejects", `{"success": true, "score": 0.49}`, true},
		{"missing success flag rejects", `{"score": 0.9}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "test-secret", r.URL.Query().Get("secret"))
				assert.Equal(t, "tok-123", r.URL.Query().Get("response"))
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.response))
			}))
			defer srv.Close()

			err := newTestVerifier(t, srv.URL).Verify(context.Background(), "tok-123")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeVerificationRejected))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerify_EmptyTokenSkipsCall(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	err := newTestVerifier(t, srv.URL).Verify(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls))
}

func TestVerify_NetworkErrorRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	err := newTestVerifier(t, srv.URL).Verify(context.Background(), "tok-123")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeVerificationRejected))
}

func TestVerify_MalformedResponseRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	err := newTestVerifier(t, srv.URL).Verify(context.Background(), "tok-123")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeVerificationRejected))
}

func TestVerify_Non200Rejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newTestVerifier(t, srv.URL).Verify(context.Background(), "tok-123")
	assert.Error(t, err)
}

// stubVerifier drives the middleware without a live endpoint.
type stubVerifier struct {
	err        error
	seenTokens []string
}

func (s *stubVerifier) Verify(_ context.Context, token string) error {
	s.seenTokens = append(s.seenTokens, token)
	return s.err
}

func TestMiddleware_RejectionStopsHandler(t *testing.T) {
	stub := &stubVerifier{err: errors.NewVerificationRejectedError("score too low")}
	handlerRan := false

	mw := Middleware(stub, func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/demo/estimate",
		strings.NewReader(`{"input":"ボルト500本","recaptchaToken":"tok-9"}`))
	mw(rr, req)

	assert.False(t, handlerRan)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"error":"reCAPTCHA verification failed"}`, rr.Body.String())
	assert.Equal(t, []string{"tok-9"}, stub.seenTokens)
}

func TestMiddleware_BodyStaysReadable(t *testing.T) {
	stub := &stubVerifier{}
	var got struct {
		Input string `json:"input"`
	}

	mw := Middleware(stub, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/demo/estimate",
		strings.NewReader(`{"input":"チラシ3,000部"}`))
	mw(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "チラシ3,000部", got.Input)
	assert.Equal(t, []string{""}, stub.seenTokens)
}
