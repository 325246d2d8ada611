package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"voyage-planner-service/internal/api/dto"
	"voyage-planner-service/internal/domain"

	"github.com/rs/zerolog"
)

var errTrailingData = errors.New("body must contain only one JSON object")

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// allowOnly rejects requests whose method differs from method.
func allowOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errTrailingData
	}
	return nil
}

func writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errTrailingData) {
		writeError(w, r, http.StatusBadRequest, errTrailingData.Error())
		return
	}
	writeError(w, r, http.StatusBadRequest, "invalid json body")
}

func voyageResponse(v *domain.Voyage) dto.VoyageResponse {
	res := dto.VoyageResponse{
		ID:            v.ID,
		ShipID:        v.ShipID,
		Origin:        v.Origin,
		Destination:   v.Destination,
		DepartureTime: v.DepartureTime,
		CargoKg:       v.CargoKg,
		Weather:       string(v.Weather),
		Plan:          planResponse(v.Plan),
	}
	if v.Ship != nil {
		res.Ship = &dto.ShipResponse{ID: v.Ship.ID, Name: v.Ship.Name, EngineType: v.Ship.EngineType}
	}
	if v.Actuals != nil {
		res.Actuals = &dto.VoyageActualsResponse{ETA: v.Actuals.ETA, FuelKg: v.Actuals.FuelKg, Notes: v.Actuals.Notes}
	}
	return res
}

func planResponse(p domain.VoyagePlan) dto.VoyagePlanResponse {
	route := p.Route
	if route == nil {
		route = []string{}
	}
	return dto.VoyagePlanResponse{
		ETA:              p.ETA,
		FuelKg:           p.FuelKg,
		Route:            route,
		SpeedScheduleKph: p.SpeedScheduleKph,
	}
}
