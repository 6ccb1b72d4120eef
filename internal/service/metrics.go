package service

import (
	"context"
	"strconv"

	"github.com/alexanderramin/haven/internal/domain"
	"github.com/alexanderramin/haven/internal/recommend"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "haven"

// Metrics holds the engine's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Detections        *prometheus.CounterVec
	DetectionDuration prometheus.Histogram
	AnalyzerFailures  *prometheus.CounterVec
	CrisisEvents      *prometheus.CounterVec
	EventSinkFailures prometheus.Counter
	Recommendations   *prometheus.CounterVec
	GeneratorFailures *prometheus.CounterVec
	UseCaseDuration   *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "detections_total",
			Help:      "Crisis detections by fused level",
		}, []string{"level", "degraded"}),
		DetectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "detection_duration_seconds",
			Help:      "Duration of crisis detection in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		AnalyzerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "analyzer_failures_total",
			Help:      "Analyzer runs that timed out or panicked",
		}, []string{"analyzer"}),
		CrisisEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "crisis_events_total",
			Help:      "Crisis events emitted by action taken",
		}, []string{"action"}),
		EventSinkFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "event_sink_failures_total",
			Help:      "Crisis events a sink failed to record",
		}),
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "recommendations_total",
			Help:      "Recommendation results by fallback usage",
		}, []string{"fallback"}),
		GeneratorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "generator_failures_total",
			Help:      "Candidate generator runs that failed",
		}, []string{"generator"}),
		UseCaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "use_case_duration_seconds",
			Help:      "Duration of service use cases in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"use_case", "success"}),
	}
	reg.MustRegister(
		m.Detections, m.DetectionDuration, m.AnalyzerFailures, m.CrisisEvents,
		m.EventSinkFailures, m.Recommendations, m.GeneratorFailures, m.UseCaseDuration,
	)
	return m
}

// Registry exposes the collectors for a /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func (m *Metrics) observeDetection(r domain.CrisisDetectionResult, seconds float64) {
	if m == nil {
		return
	}
	m.Detections.WithLabelValues(r.Level.String(), strconv.FormatBool(r.Degraded)).Inc()
	m.DetectionDuration.Observe(seconds)
}

func (m *Metrics) analyzerFailed(analyzer string) {
	if m == nil {
		return
	}
	m.AnalyzerFailures.WithLabelValues(analyzer).Inc()
}

func (m *Metrics) sinkFailed() {
	if m == nil {
		return
	}
	m.EventSinkFailures.Inc()
}

func (m *Metrics) observeRecommendation(r domain.RecommendationResult, trace recommend.Trace) {
	if m == nil {
		return
	}
	m.Recommendations.WithLabelValues(strconv.FormatBool(r.FallbackUsed)).Inc()
	for _, k := range trace.Failed {
		m.GeneratorFailures.WithLabelValues(string(k)).Inc()
	}
}

// RecordCrisisEvent counts the event; it makes Metrics usable as an EventSink.
func (m *Metrics) RecordCrisisEvent(_ context.Context, event domain.CrisisEvent) error {
	if m == nil {
		return nil
	}
	m.CrisisEvents.WithLabelValues(string(event.ActionTaken)).Inc()
	return nil
}

// ObserveUseCase makes Metrics usable as a UseCaseObserver.
func (m *Metrics) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	if m == nil {
		return
	}
	m.UseCaseDuration.WithLabelValues(event.Name, strconv.FormatBool(event.Success)).Observe(event.Duration.Seconds())
}
