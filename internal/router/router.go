package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"site-api/internal/common/config"
	"site-api/internal/common/logger"
	"site-api/internal/common/middleware"
	"site-api/internal/common/observability"
	"site-api/internal/quota"
	"site-api/internal/recaptcha"
)

// Dependencies carries everything the route table needs. Tracker and Obs may
// be nil.
type Dependencies struct {
	Config   *config.Config
	Logger   logger.Logger
	Verifier recaptcha.TokenVerifier
	Tracker  *quota.Tracker
	Obs      *observability.Observability

	ContactHandler  http.Handler
	SummaryHandler  http.Handler
	EstimateHandler http.Handler
	SampleHandler   http.Handler
}

// New builds the service mux. Each endpoint gets the same chain, outermost
// first: request logging, then the verification gate, then the quota
// middleware, both per-route config switches.
func New(deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	register(mux, deps, "contact", "POST /api/contact", deps.ContactHandler)
	register(mux, deps, "demo", "POST /api/demo", deps.SummaryHandler)
	register(mux, deps, "demo_estimate", "POST /api/demo/estimate", deps.EstimateHandler)
	register(mux, deps, "demo_generate_sample", "POST /api/demo/generate-sample", deps.SampleHandler)

	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.CORS(mux)
}

func register(mux *http.ServeMux, deps Dependencies, name, pattern string, handler http.Handler) {
	endpoint := config.GetEndpointConfig(deps.Config, name)
	if !endpoint.Enabled {
		return
	}

	chain := handler.ServeHTTP
	if endpoint.Quota && deps.Tracker != nil {
		chain = quota.Middleware(deps.Tracker, chain)
	}
	if endpoint.Recaptcha {
		chain = recaptcha.Middleware(deps.Verifier, chain)
	}
	if deps.Obs != nil {
		chain = withObservability(deps.Obs, name, chain)
	}
	mux.HandleFunc(pattern, middleware.WithLogging(deps.Logger, name, chain))
}

func withObservability(obs *observability.Observability, endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := middleware.NewStatusRecorder(w)
		next(rec, r)

		obs.RecordRequest(r.Context(), endpoint, strconv.Itoa(rec.Status))
		obs.RecordRequestDuration(r.Context(), endpoint, time.Since(start))
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
