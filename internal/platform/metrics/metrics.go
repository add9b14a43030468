package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	SignIns             prometheus.Counter
	SignUps             prometheus.Counter
	SignOuts            prometheus.Counter
	AuthFailures        *prometheus.CounterVec
	ScreenDecisions     *prometheus.CounterVec
	BiometricChallenges *prometheus.CounterVec
	ActiveInstallations prometheus.Gauge
	ToastsQueued        prometheus.Counter
	TokenFetchFailures  prometheus.Counter
	EndpointLatency     *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		SignIns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lookbook_signins_total",
			Help: "Total number of successful sign-ins",
		}),
		SignUps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lookbook_signups_total",
			Help: "Total number of successful sign-ups",
		}),
		SignOuts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lookbook_signouts_total",
			Help: "Total number of sign-outs, including forced ones",
		}),
		AuthFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lookbook_auth_failures_total",
			Help: "Total number of authentication failures, labeled by provider error code",
		}, []string{"code"}),
		ScreenDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lookbook_screen_decisions_total",
			Help: "Total number of gating decisions, labeled by resulting screen",
		}, []string{"screen"}),
		BiometricChallenges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lookbook_biometric_challenges_total",
			Help: "Total number of biometric challenges, labeled by outcome",
		}, []string{"outcome"}),
		ActiveInstallations: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "lookbook_active_installations",
			Help: "Current number of registered device installations",
		}),
		ToastsQueued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lookbook_toasts_queued_total",
			Help: "Total number of transient notifications queued",
		}),
		TokenFetchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lookbook_token_fetch_failures_total",
			Help: "Total number of identity token fetches that failed and degraded to an empty token",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lookbook_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}
