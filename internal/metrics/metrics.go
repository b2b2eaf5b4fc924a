// Package metrics registra las métricas Prometheus de la API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dinoco_api_requests_total",
			Help: "Total de requests HTTP",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dinoco_api_request_duration_seconds",
			Help:    "Latencia de requests HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dinoco_api_active_requests",
			Help: "Requests en curso",
		},
	)

	// Recomendaciones
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dinoco_recommendations_served_total",
			Help: "Películas recomendadas por tipo de explicación",
		},
		[]string{"explanation_type"},
	)

	// Cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dinoco_cache_hits_total",
			Help: "Aciertos de cache Redis",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dinoco_cache_misses_total",
			Help: "Fallos de cache Redis",
		},
		[]string{"cache"},
	)

	// Auth
	OTPEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dinoco_otp_events_total",
			Help: "Eventos de OTP (issued, verified, rejected)",
		},
		[]string{"event"},
	)

	MailFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dinoco_mail_failures_total",
			Help: "Envíos de email fallidos",
		},
	)

	DecisionTraces = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dinoco_decision_traces_total",
			Help: "Decision traces registrados por fuente",
		},
		[]string{"source"},
	)
)

func RecordAPIRequest(method, route, status string, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

func RecordCache(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

func RecordRecommendations(types []string) {
	for _, t := range types {
		RecommendationsServed.WithLabelValues(t).Inc()
	}
}

const (
	OTPIssued   = "issued"
	OTPVerified = "verified"
	OTPRejected = "rejected"
)

func RecordOTP(event string) {
	OTPEvents.WithLabelValues(event).Inc()
}
