package handlers

import (
	"errors"
	"net/http"
	"strings"
	"voyage-planner-service/internal/api/dto"
	"voyage-planner-service/internal/domain"
	"voyage-planner-service/internal/ports"
	"voyage-planner-service/internal/services"

	"github.com/rs/zerolog"
)

// VoyageHandler plans new voyages and lists planned ones.
type VoyageHandler struct {
	Repo      ports.VoyageRepository
	Predictor services.Predictor
}

const missingPlanFields = "Missing required fields: origin, destination, departureTime, weather, cargoKg, shipId."

func (h *VoyageHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanVoyageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	origin := strings.TrimSpace(req.Origin)
	destination := strings.TrimSpace(req.Destination)
	shipID := strings.TrimSpace(req.ShipID)
	if origin == "" || destination == "" || req.DepartureTime == nil ||
		strings.TrimSpace(req.Weather) == "" || req.CargoKg == nil || shipID == "" {
		writeError(w, r, http.StatusBadRequest, missingPlanFields)
		return
	}

	weather, err := domain.ParseWeather(req.Weather)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "weather must be one of Calm, Moderate, Stormy")
		return
	}
	if *req.CargoKg < 0 {
		writeError(w, r, http.StatusBadRequest, "cargoKg must not be negative")
		return
	}

	v, err := services.PlanVoyage(r.Context(), services.PlanVoyageRequest{
		ShipID:        shipID,
		Origin:        origin,
		Destination:   destination,
		DepartureTime: *req.DepartureTime,
		Weather:       weather,
		CargoKg:       *req.CargoKg,
	}, h.Predictor, h.Repo)
	if err != nil {
		logger := zerolog.Ctx(r.Context())
		switch {
		case errors.Is(err, services.ErrModelUnready):
			logger.Warn().Err(err).Msg("plan voyage: fuel model unavailable")
			writeError(w, r, http.StatusServiceUnavailable, "fuel prediction model is not ready")
		case errors.Is(err, ports.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "ship not found")
		default:
			logger.Error().Err(err).Msg("plan voyage failed")
			writeError(w, r, http.StatusInternalServerError, "Failed to create voyage plan.")
		}
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.PlanVoyageResponse{
		VoyageID:           v.ID,
		VoyagePlanResponse: planResponse(v.Plan),
	})
}

// History lists all voyages, latest departure first.
func (h *VoyageHandler) History(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	voyages, err := h.Repo.ListVoyages(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list voyages failed")
		writeError(w, r, http.StatusInternalServerError, "Failed to fetch voyage history.")
		return
	}

	res := dto.ListVoyagesResponse{Voyages: make([]dto.VoyageResponse, 0, len(voyages))}
	for _, v := range voyages {
		res.Voyages = append(res.Voyages, voyageResponse(v))
	}
	writeJSON(w, r, http.StatusOK, res)
}
