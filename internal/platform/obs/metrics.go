package obs

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for model training, predictions and
// the HTTP API. A nil *Metrics is valid and records nothing.
type Metrics struct {
	trainingRuns     *prometheus.CounterVec
	trainingDuration *prometheus.HistogramVec
	modelReady       *prometheus.GaugeVec
	predictions      *prometheus.CounterVec
	alerts           *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
}

// NewMetrics registers collectors on reg. A nil registerer defaults to the
// global Prometheus registerer. Collectors already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		trainingRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "model_training_runs_total",
			Help: "Model training attempts by outcome",
		}, []string{"model", "outcome"}),
		trainingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "model_training_duration_seconds",
			Help:    "Wall time spent fitting a model",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"model"}),
		modelReady: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "model_ready",
			Help: "1 when the model has been trained and can serve predictions",
		}, []string{"model"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Prediction requests by model and result status",
		}, []string{"model", "status"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "maintenance_alerts_total",
			Help: "Maintenance alerts produced by level",
		}, []string{"level"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, path and status code",
		}, []string{"method", "path", "status"}),
	}

	var err error
	if m.trainingRuns, err = register(reg, m.trainingRuns); err != nil {
		return nil, err
	}
	if m.trainingDuration, err = register(reg, m.trainingDuration); err != nil {
		return nil, err
	}
	if m.modelReady, err = register(reg, m.modelReady); err != nil {
		return nil, err
	}
	if m.predictions, err = register(reg, m.predictions); err != nil {
		return nil, err
	}
	if m.alerts, err = register(reg, m.alerts); err != nil {
		return nil, err
	}
	if m.httpRequests, err = register(reg, m.httpRequests); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveTraining records one training attempt for model.
func (m *Metrics) ObserveTraining(model, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.trainingRuns.WithLabelValues(model, outcome).Inc()
	m.trainingDuration.WithLabelValues(model).Observe(d.Seconds())
}

// SetModelReady flips the readiness gauge for model.
func (m *Metrics) SetModelReady(model string, ready bool) {
	if m == nil {
		return
	}
	v := 0.0
	if ready {
		v = 1
	}
	m.modelReady.WithLabelValues(model).Set(v)
}

func (m *Metrics) ObservePrediction(model, status string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(model, status).Inc()
}

func (m *Metrics) ObserveAlert(level string) {
	if m == nil {
		return
	}
	m.alerts.WithLabelValues(level).Inc()
}

func (m *Metrics) ObserveRequest(method, path string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
