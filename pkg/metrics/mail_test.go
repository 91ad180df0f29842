package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMailMetricsExportsCountersAndGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMailMetrics(reg)
	kind := "order_created"

	metrics.IncEnqueued(kind)
	metrics.IncEnqueued(kind)
	metrics.IncSent(kind)
	metrics.IncFailed(kind)
	metrics.IncDropped(kind)
	metrics.SetQueueDepth(3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "mail_enqueued_total", "kind", kind); err != nil {
		t.Fatalf("fetch enqueued: %v", err)
	} else if got != 2 {
		t.Fatalf("expected enqueued=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "mail_sent_total", "kind", kind); err != nil {
		t.Fatalf("fetch sent: %v", err)
	} else if got != 1 {
		t.Fatalf("expected sent=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "mail_failed_total", "kind", kind); err != nil {
		t.Fatalf("fetch failed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failed=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "mail_dropped_total", "kind", kind); err != nil {
		t.Fatalf("fetch dropped: %v", err)
	} else if got != 1 {
		t.Fatalf("expected dropped=1, got %f", got)
	}

	gauge := findMetricFamily(mfs, "mail_queue_depth")
	if gauge == nil {
		t.Fatal("queue depth gauge not registered")
	}
	if got := gauge.GetMetric()[0].GetGauge().GetValue(); got != 3 {
		t.Fatalf("expected queue depth 3, got %f", got)
	}
}

func TestMailMetricsNilReceiverSafe(t *testing.T) {
	var metrics *MailMetrics
	metrics.IncEnqueued("x")
	metrics.IncSent("x")
	metrics.IncFailed("x")
	metrics.IncDropped("x")
	metrics.SetQueueDepth(1)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
