package http

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m.HandshakesTotal == nil {
		t.Error("HandshakesTotal not initialized")
	}
	if m.RequestsTotal == nil {
		t.Error("RequestsTotal not initialized")
	}
	if m.RequestDuration == nil {
		t.Error("RequestDuration not initialized")
	}
}

func TestMetricsRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.HandshakesTotal.WithLabelValues("ok").Inc()
	if got := testutil.ToFloat64(m.HandshakesTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("HandshakesTotal = %v, want 1", got)
	}

	m.RequestsTotal.WithLabelValues("GetVersion", "Success").Inc()
	m.RequestsTotal.WithLabelValues("GetVersion", "Success").Inc()
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GetVersion", "Success")); got != 2 {
		t.Errorf("RequestsTotal = %v, want 2", got)
	}

	m.RequestDuration.WithLabelValues("GetVersion").Observe(0.05)
	m.RequestDuration.WithLabelValues("GetVersion").Observe(0.2)

	gathered, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	var histogram *dto.MetricFamily
	for _, mf := range gathered {
		if mf.GetName() == "scenecast_request_duration_seconds" {
			histogram = mf
		}
	}
	if histogram == nil {
		t.Fatal("request duration histogram not found in gathered metrics")
	}
	if count := histogram.GetMetric()[0].GetHistogram().GetSampleCount(); count != 2 {
		t.Errorf("histogram sample count = %d, want 2", count)
	}
}
