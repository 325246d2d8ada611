package obs

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordTraining(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	m.ObserveTraining("fuel", "trained", 120*time.Millisecond)
	m.ObserveTraining("maintenance", "unavailable", 0)
	m.SetModelReady("fuel", true)
	m.SetModelReady("maintenance", false)

	expected := `
# HELP model_training_runs_total Model training attempts by outcome
# TYPE model_training_runs_total counter
model_training_runs_total{model="fuel",outcome="trained"} 1
model_training_runs_total{model="maintenance",outcome="unavailable"} 1
`
	if err := testutil.CollectAndCompare(m.trainingRuns, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}

	expectedReady := `
# HELP model_ready 1 when the model has been trained and can serve predictions
# TYPE model_ready gauge
model_ready{model="fuel"} 1
model_ready{model="maintenance"} 0
`
	if err := testutil.CollectAndCompare(m.modelReady, strings.NewReader(expectedReady)); err != nil {
		t.Errorf("unexpected readiness metric: %v", err)
	}

	if c := testutil.CollectAndCount(m.trainingDuration); c != 2 {
		t.Errorf("duration series = %d, want 2", c)
	}
}

func TestMetricsReuseRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("first registration: %v", err)
	}
	b, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("second registration: %v", err)
	}

	a.ObservePrediction("fuel", "ready")
	b.ObservePrediction("fuel", "ready")

	if got := testutil.ToFloat64(a.predictions.WithLabelValues("fuel", "ready")); got != 2 {
		t.Fatalf("predictions = %v, want 2", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveTraining("fuel", "trained", time.Second)
	m.SetModelReady("fuel", true)
	m.ObservePrediction("fuel", "ready")
	m.ObserveAlert("WARNING")
	m.ObserveRequest("GET", "/health", 200)
}
