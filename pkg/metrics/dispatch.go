package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics records fan-out activity per event name.
type DispatchMetrics struct {
	persisted *prometheus.CounterVec
	pushed    *prometheus.CounterVec
	failures  *prometheus.CounterVec
	dropped   prometheus.Counter
}

// NewDispatchMetrics registers the fan-out metrics on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	persisted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_persisted_total",
		Help: "Durable notification rows written, by event.",
	}, []string{"event"})
	pushed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_pushed_total",
		Help: "Live room pushes emitted, by event.",
	}, []string{"event"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_dispatch_failures_total",
		Help: "Per-recipient persistence failures, by event.",
	}, []string{"event"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "realtime_messages_dropped_total",
		Help: "Live pushes dropped because a client send queue was full.",
	})
	reg.MustRegister(persisted, pushed, failures, dropped)
	return &DispatchMetrics{
		persisted: persisted,
		pushed:    pushed,
		failures:  failures,
		dropped:   dropped,
	}
}

// IncPersisted counts one durable notification write for the named event.
func (m *DispatchMetrics) IncPersisted(event string) {
	if m == nil || m.persisted == nil {
		return
	}
	m.persisted.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncPushed counts one room push for the named event.
func (m *DispatchMetrics) IncPushed(event string) {
	if m == nil || m.pushed == nil {
		return
	}
	m.pushed.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncFailure counts one per-recipient persistence failure for the named event.
func (m *DispatchMetrics) IncFailure(event string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncDropped counts one dropped client delivery.
func (m *DispatchMetrics) IncDropped() {
	if m == nil || m.dropped == nil {
		return
	}
	m.dropped.Inc()
}

func normalizeLabel(event string) string {
	if event == "" {
		return "unknown"
	}
	return event
}
