package services

import (
	"context"
	"fmt"
	"time"
	"voyage-planner-service/internal/domain"
	"voyage-planner-service/internal/ports"
)

type PlanVoyageRequest struct {
	ShipID        string
	Origin        string
	Destination   string
	DepartureTime time.Time
	Weather       domain.Weather
	CargoKg       float64
}

// Predictions needed by the voyage use cases. *PredictionEngine satisfies it.
type Predictor interface {
	PlanRoute(in RouteInput) domain.RoutePlan
	PredictFuel(speedKph, cargoKg, weatherFactor float64) Result[float64]
	PredictMaintenance(totalEngineHours float64, lastService time.Time) Result[domain.MaintenanceAlert]
}

// PlanVoyage routes a voyage, predicts its fuel use at the suggested speed
// and persists it with the resulting plan.
//
// Fuel is estimated as burn rate x ETA hours. If the fuel model is not
// available the voyage is not stored and ErrModelUnready is returned.
func PlanVoyage(
	ctx context.Context,
	req PlanVoyageRequest,
	predictor Predictor,
	repo ports.VoyageRepository,
) (*domain.Voyage, error) {
	route := predictor.PlanRoute(RouteInput{
		Origin:      req.Origin,
		Destination: req.Destination,
		Weather:     req.Weather,
		CargoKg:     req.CargoKg,
	})

	burnRate, err := predictor.PredictFuel(route.SuggestedSpeedKph, req.CargoKg, req.Weather.Factor()).Get()
	if err != nil {
		return nil, fmt.Errorf("plan voyage: predict fuel: %w", err)
	}

	eta := req.DepartureTime.Add(time.Duration(route.EtaHours * float64(time.Hour)))

	v := domain.Voyage{
		ShipID:        req.ShipID,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		CargoKg:       req.CargoKg,
		Weather:       req.Weather,
		Plan: domain.VoyagePlan{
			ETA:              eta,
			FuelKg:           round2(burnRate * route.EtaHours),
			Route:            route.Route,
			SpeedScheduleKph: route.SuggestedSpeedKph,
		},
	}

	created, err := repo.CreateVoyage(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("plan voyage: store voyage: %w", err)
	}
	return created, nil
}
