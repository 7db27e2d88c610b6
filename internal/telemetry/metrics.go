package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Context cache event labels.
const (
	CacheHit     = "hit"
	CacheMiss    = "miss"
	CacheEvicted = "evicted"
)

// Metrics holds the Prometheus instruments for the generation pipeline.
// A nil *Metrics is valid and records nothing, so transports without a
// metrics endpoint (CLI chat, tests) can skip registration entirely.
type Metrics struct {
	GenerationTotal   *prometheus.CounterVec
	GenerationSeconds *prometheus.HistogramVec
	ConverseTotal     *prometheus.CounterVec
	CacheEventsTotal  *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// NewMetrics creates and registers all pipeline metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		GenerationTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brief_generation_total",
			Help: "Total artifact generations by mode and outcome.",
		}, []string{"mode", "outcome"}),

		GenerationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brief_generation_seconds",
			Help:    "End-to-end artifact generation duration in seconds.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"mode"}),

		ConverseTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brief_converse_total",
			Help: "Total conversational turns by outcome.",
		}, []string{"outcome"}),

		CacheEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brief_context_cache_events_total",
			Help: "Context cache hits, misses and evictions.",
		}, []string{"event"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brief_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by route and status code.",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 15, 60, 180},
		}, []string{"route", "code"}),
	}
}

// BriefGenerated records one finished artifact generation.
func (m *Metrics) BriefGenerated(mode string, fallback bool, seconds float64) {
	if m == nil {
		return
	}

	outcome := "ok"
	if fallback {
		outcome = "fallback"
	}
	m.GenerationTotal.WithLabelValues(mode, outcome).Inc()
	m.GenerationSeconds.WithLabelValues(mode).Observe(seconds)
}

// ConverseTurn records one finished conversational turn.
func (m *Metrics) ConverseTurn(outcome string) {
	if m == nil {
		return
	}

	m.ConverseTotal.WithLabelValues(outcome).Inc()
}

// CacheEvent records n context cache events of the given kind.
func (m *Metrics) CacheEvent(event string, n int) {
	if m == nil || n <= 0 {
		return
	}

	m.CacheEventsTotal.WithLabelValues(event).Add(float64(n))
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, code string, seconds float64) {
	if m == nil {
		return
	}

	m.RequestDuration.WithLabelValues(route, code).Observe(seconds)
}
