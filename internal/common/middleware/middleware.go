// internal/common/middleware/middleware.go
package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"site-api/internal/common/logger"
	"site-api/internal/common/metrics"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// ErrorEnvelope is the JSON error body every failing endpoint returns.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// StatusRecorder captures the status code written by a handler.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

func (r *StatusRecorder) WriteHeader(status int) {
	r.Status = status
	r.ResponseWriter.WriteHeader(status)
}

// WithLogging wraps a handler with request logging and per-endpoint metrics.
func WithLogging(log logger.Logger, endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		log.Info("request started", map[string]interface{}{
			"requestId": requestID,
			"endpoint":  endpoint,
			"method":    r.Method,
			"path":      r.URL.Path,
			"remote":    GetClientIP(r),
		})

		rec := NewStatusRecorder(w)
		next(rec, r.WithContext(ctx))

		duration := time.Since(start)
		log.Info("request completed", map[string]interface{}{
			"requestId":   requestID,
			"endpoint":    endpoint,
			"status":      rec.Status,
			"duration_ms": duration.Milliseconds(),
		})

		metrics.HTTPRequestsTotal.WithLabelValues(endpoint, httpStatusLabel(rec.Status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	}
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}

// RequestIDFromContext returns the request ID set by WithLogging, if any.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// CORS enables cross-origin requests from the site frontend.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// JSONResponse writes v as a JSON body with the given status.
func JSONResponse(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RawJSONResponse writes an already-encoded JSON document verbatim.
func RawJSONResponse(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// ErrorResponse writes the standard {error: message} envelope.
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, ErrorEnvelope{Error: message})
}

// ParseJSONBody decodes a JSON request body into v.
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// GetClientIP returns the original client IP, honoring proxy headers.
func GetClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
