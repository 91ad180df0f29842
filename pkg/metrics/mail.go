package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MailMetrics records delivery outcomes for the notification dispatcher.
type MailMetrics struct {
	enqueued   *prometheus.CounterVec
	sent       *prometheus.CounterVec
	failed     *prometheus.CounterVec
	dropped    *prometheus.CounterVec
	queueDepth prometheus.Gauge
}

// NewMailMetrics registers the mail metrics on the provided registerer.
func NewMailMetrics(reg prometheus.Registerer) *MailMetrics {
	if reg == nil {
		return &MailMetrics{}
	}
	enqueued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_enqueued_total",
		Help: "Notifications accepted onto the mail queue.",
	}, []string{"kind"})
	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_sent_total",
		Help: "Notifications delivered via SMTP.",
	}, []string{"kind"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_failed_total",
		Help: "Notifications that failed SMTP delivery.",
	}, []string{"kind"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_dropped_total",
		Help: "Notifications dropped because the queue was full.",
	}, []string{"kind"})
	queueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mail_queue_depth",
		Help: "Notifications currently waiting on the mail queue.",
	})
	reg.MustRegister(enqueued, sent, failed, dropped, queueDepth)
	return &MailMetrics{
		enqueued:   enqueued,
		sent:       sent,
		failed:     failed,
		dropped:    dropped,
		queueDepth: queueDepth,
	}
}

// IncEnqueued increments the enqueued counter for the notification kind.
func (m *MailMetrics) IncEnqueued(kind string) {
	if m == nil || m.enqueued == nil {
		return
	}
	m.enqueued.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncSent increments the delivered counter for the notification kind.
func (m *MailMetrics) IncSent(kind string) {
	if m == nil || m.sent == nil {
		return
	}
	m.sent.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncFailed increments the failure counter for the notification kind.
func (m *MailMetrics) IncFailed(kind string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncDropped increments the drop counter for the notification kind.
func (m *MailMetrics) IncDropped(kind string) {
	if m == nil || m.dropped == nil {
		return
	}
	m.dropped.WithLabelValues(normalizeLabel(kind)).Inc()
}

// SetQueueDepth records the current queue occupancy.
func (m *MailMetrics) SetQueueDepth(depth int) {
	if m == nil || m.queueDepth == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}

func normalizeLabel(kind string) string {
	if kind == "" {
		return "unknown"
	}
	return kind
}
