// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_http_requests_total",
			Help: "Total number of API requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "api_http_request_duration_seconds",
			Help: "Duration of API request handling in seconds",
		},
		[]string{"endpoint"},
	)

	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_provider_calls_total",
			Help: "Total number of completion provider calls by prompt kind and outcome",
		},
		[]string{"prompt_kind", "outcome"},
	)

	VerificationChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_verification_checks_total",
			Help: "Total number of abuse-verification checks by outcome",
		},
		[]string{"outcome"},
	)

	RelayDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_relay_deliveries_total",
			Help: "Total number of notification relay deliveries by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	QuotaDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_quota_decisions_total",
			Help: "Total number of quota tracker decisions",
		},
		[]string{"decision"},
	)
)
