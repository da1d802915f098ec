package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TempTokensIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "empdesk_temp_tokens_issued_total",
		Help: "Total number of login handshake tokens issued.",
	})

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "empdesk_logins_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"status"},
	)

	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "empdesk_refreshes_total",
			Help: "Access token refreshes by trigger and outcome.",
		},
		[]string{"trigger", "status"},
	)

	TokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "empdesk_token_verifications_total",
			Help: "Token verification attempts by type and status.",
		},
		[]string{"type", "status"},
	)

	RevocationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "empdesk_token_revocations_total",
		Help: "Total number of session tokens revoked explicitly.",
	})

	SweptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "empdesk_swept_entries_total",
			Help: "Expired entries removed by the background sweep, by store.",
		},
		[]string{"store"},
	)

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "empdesk_active_sessions",
		Help: "Session tokens currently in the registry, sampled after each sweep.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "empdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "code"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
