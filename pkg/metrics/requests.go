package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics records outcomes of storefront API round trips and the
// cart store's response-ordering decisions.
type RequestMetrics struct {
	duration      *prometheus.HistogramVec
	success       *prometheus.CounterVec
	failure       *prometheus.CounterVec
	staleDiscards *prometheus.CounterVec
	droppedEvents prometheus.Counter
}

// NewRequestMetrics registers the client metrics on the provided registerer.
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	if reg == nil {
		return &RequestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_request_duration_seconds",
		Help:    "Duration of storefront API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_request_success",
		Help: "Successful storefront API requests.",
	}, []string{"op"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_request_failure",
		Help: "Failed storefront API requests.",
	}, []string{"op"})
	staleDiscards := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_stale_responses_discarded",
		Help: "Cart responses dropped because a newer request or identity superseded them.",
	}, []string{"op"})
	droppedEvents := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_analytics_events_dropped",
		Help: "Analytics events dropped due to a full buffer or delivery failure.",
	})
	reg.MustRegister(duration, success, failure, staleDiscards, droppedEvents)
	return &RequestMetrics{
		duration:      duration,
		success:       success,
		failure:       failure,
		staleDiscards: staleDiscards,
		droppedEvents: droppedEvents,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *RequestMetrics) ObserveDuration(op string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (m *RequestMetrics) IncSuccess(op string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (m *RequestMetrics) IncFailure(op string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncStaleDiscard counts a response discarded by the ordering gate.
func (m *RequestMetrics) IncStaleDiscard(op string) {
	if m == nil || m.staleDiscards == nil {
		return
	}
	m.staleDiscards.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncDroppedEvent counts an analytics event that never left the client.
func (m *RequestMetrics) IncDroppedEvent() {
	if m == nil || m.droppedEvents == nil {
		return
	}
	m.droppedEvents.Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return strings.ReplaceAll(trimmed, " ", "_")
}
