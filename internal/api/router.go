package api

import (
	"net/http"
	"time"
	"voyage-planner-service/internal/api/handlers"
	"voyage-planner-service/internal/platform/obs"
	"voyage-planner-service/internal/ports"
	"voyage-planner-service/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Engine is what the API needs from the prediction engine.
type Engine interface {
	services.Predictor
	handlers.ReadinessReporter
}

type Deps struct {
	Voyages     ports.VoyageRepository
	Maintenance ports.MaintenanceRepository
	Engine      Engine
	Logger      zerolog.Logger
	// Metrics and Gatherer are optional; a nil Gatherer leaves /metrics unmounted.
	Metrics  *obs.Metrics
	Gatherer prometheus.Gatherer
	Now      func() time.Time
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	readyHandler := &handlers.ReadyHandler{Engine: d.Engine}
	voyageHandler := &handlers.VoyageHandler{Repo: d.Voyages, Predictor: d.Engine}
	feedbackHandler := &handlers.FeedbackHandler{Repo: d.Voyages, Now: d.Now}
	maintenanceHandler := &handlers.MaintenanceHandler{Repo: d.Maintenance, Predictor: d.Engine}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/ready", readyHandler.Ready)
	mux.HandleFunc("/plan-voyage", voyageHandler.Plan)
	mux.HandleFunc("/plan-history", voyageHandler.History)
	mux.HandleFunc("/feedback", feedbackHandler.Submit)
	mux.HandleFunc("/maintenance-alerts", maintenanceHandler.Alerts)
	if d.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	return loggingMiddleware(d.Logger, d.Metrics, mux)
}
