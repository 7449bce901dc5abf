package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPipelineMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPipelineMetrics(reg)
	m.ObserveTurn("critical", "crisis")
	m.ObserveTurn("critical", "crisis")
	m.ObserveLLMLatency("reply", false, 0.4)
	m.ObserveLLMLatency("media", true, 1.2)

	if got := testutil.ToFloat64(m.turnsTotal.WithLabelValues("critical", "crisis")); got != 2 {
		t.Fatalf("expected 2 crisis turns, got %v", got)
	}
	if got := testutil.CollectAndCount(m.llmLatency); got != 2 {
		t.Fatalf("expected 2 latency series, got %d", got)
	}
}

func TestAlertMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAlertMetrics(reg)
	m.ObserveAlert("sent")
	m.ObserveAlert("failed")
	m.ObserveDetected(3)
	m.ObserveDetected(0)

	if got := testutil.ToFloat64(m.alertsTotal.WithLabelValues("sent")); got != 1 {
		t.Fatalf("expected 1 sent alert, got %v", got)
	}
	if got := testutil.ToFloat64(m.ingestedWords); got != 3 {
		t.Fatalf("expected 3 detected words, got %v", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var p *PipelineMetrics
	p.ObserveTurn("low", "ok")
	p.ObserveLLMLatency("reply", false, 0.1)

	var a *AlertMetrics
	a.ObserveAlert("sent")
	a.ObserveDetected(1)
}
