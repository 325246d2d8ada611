package handlers

import (
	"errors"
	"net/http"
	"voyage-planner-service/internal/api/dto"
	"voyage-planner-service/internal/ports"
	"voyage-planner-service/internal/services"

	"github.com/rs/zerolog"
)

type MaintenanceHandler struct {
	Repo      ports.MaintenanceRepository
	Predictor services.Predictor
}

// Alerts lists ships whose engines need attention.
func (h *MaintenanceHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	alerts, err := services.MaintenanceAlerts(r.Context(), h.Predictor, h.Repo)
	if err != nil {
		logger := zerolog.Ctx(r.Context())
		if errors.Is(err, services.ErrModelUnready) {
			logger.Warn().Err(err).Msg("maintenance alerts: model unavailable")
			writeError(w, r, http.StatusServiceUnavailable, "maintenance prediction model is not ready")
			return
		}
		logger.Error().Err(err).Msg("maintenance alerts failed")
		writeError(w, r, http.StatusInternalServerError, "Failed to fetch maintenance alerts.")
		return
	}

	res := dto.ListMaintenanceAlertsResponse{Alerts: make([]dto.MaintenanceAlertResponse, 0, len(alerts))}
	for _, a := range alerts {
		res.Alerts = append(res.Alerts, dto.MaintenanceAlertResponse{
			ShipID:                   a.ShipID,
			ShipEngineType:           a.EngineType,
			AlertLevel:               string(a.Level),
			Reason:                   a.Reason,
			PredictedNextServiceDate: a.PredictedNextServiceDate,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}
