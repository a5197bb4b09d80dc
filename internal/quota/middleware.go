package quota

import (
	"net/http"

	"site-api/internal/common/errors"
	"site-api/internal/common/middleware"
)

// Middleware blocks requests from clients that exhausted today's budget.
// One unit is consumed per request that the wrapped handler answers with a
// success status, so rejected or failed requests do not burn quota.
func Middleware(tracker *Tracker, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := middleware.GetClientIP(r)

		decision := tracker.Check(r.Context(), key)
		if !decision.Allowed {
			err := errors.NewQuotaExceededError(key)
			middleware.ErrorResponse(w, errors.HTTPStatusFor(err), errors.PublicMessage(err))
			return
		}

		rec := middleware.NewStatusRecorder(w)
		next(rec, r)

		if rec.Status >= 200 && rec.Status < 300 {
			tracker.Consume(r.Context(), key)
		}
	}
}
