package handlers

import (
	"net/http"
	"voyage-planner-service/internal/api/dto"
	"voyage-planner-service/internal/services"
)

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	res := map[string]string{"status": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}

type ReadinessReporter interface {
	Readiness() services.Readiness
}

// ReadyHandler reports 200 once model training has finished, whether or not
// each model is available, and 503 before that.
type ReadyHandler struct {
	Engine ReadinessReporter
}

func (h *ReadyHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	rd := h.Engine.Readiness()
	res := dto.ReadinessResponse{
		Status:           rd.State.String(),
		FuelModel:        rd.FuelModel,
		MaintenanceModel: rd.MaintenanceModel,
	}

	status := http.StatusOK
	if rd.State != services.StateReady {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, res)
}
