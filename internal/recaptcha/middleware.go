package recaptcha

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"site-api/internal/common/errors"
	"site-api/internal/common/middleware"
)

// tokenBody extracts only the verification token from a request body.
type tokenBody struct {
	RecaptchaToken string `json:"recaptchaToken"`
}

// Middleware applies the verification gate to a route. The request body is
// buffered so the downstream handler can still decode it. A rejection ends
// the request with 403; the handler never runs.
func Middleware(verifier TokenVerifier, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		r.Body.Close()
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var tb tokenBody
		// A non-JSON body is the handler's problem, not the gate's.
		_ = json.Unmarshal(body, &tb)

		if err := verifier.Verify(r.Context(), tb.RecaptchaToken); err != nil {
			middleware.ErrorResponse(w, errors.HTTPStatusFor(err), errors.PublicMessage(err))
			return
		}

		next(w, r)
	}
}
