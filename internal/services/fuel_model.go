package services

import (
	"context"
	"fmt"
	"voyage-planner-service/internal/domain"
	"voyage-planner-service/internal/regression"
)

const fuelFeatureWidth = 3

// FuelModel predicts fuel burn rate (kg/h) from speed, cargo mass and the
// weather factor.
type FuelModel struct {
	predictor regression.Predictor
}

// NewFuelModel wraps an already fitted predictor.
func NewFuelModel(p regression.Predictor) *FuelModel {
	return &FuelModel{predictor: p}
}

// FuelTrainingSet builds one example per fuel log: features are
// [speedKph, voyage cargoKg, weather factor], target is the burn rate.
func FuelTrainingSet(logs []domain.FuelLog) (regression.TrainingSet, error) {
	set := make(regression.TrainingSet, 0, len(logs))
	for _, log := range logs {
		if log.Voyage == nil {
			return nil, fmt.Errorf("fuel training set: fuel log %q has no voyage: %w", log.ID, regression.ErrMalformedInput)
		}
		set = append(set, regression.Example{
			Features: fuelFeatures(log.SpeedKph, log.Voyage.CargoKg, log.Voyage.Weather.Factor()),
			Target:   log.FuelBurnRate,
		})
	}
	return set, nil
}

// TrainFuelModel fits a fuel model on logs. An empty slice yields
// regression.ErrEmptyTrainingSet.
func TrainFuelModel(ctx context.Context, logs []domain.FuelLog, cfg regression.Config) (*FuelModel, *regression.Model, error) {
	set, err := FuelTrainingSet(logs)
	if err != nil {
		return nil, nil, fmt.Errorf("train fuel model: %w", err)
	}

	m, err := regression.Fit(ctx, set, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("train fuel model: %w", err)
	}
	return NewFuelModel(m), m, nil
}

// Predict returns the burn rate rounded to 2 decimals.
func (m *FuelModel) Predict(speedKph, cargoKg, weatherFactor float64) (float64, error) {
	v, err := m.predictor.Predict(fuelFeatures(speedKph, cargoKg, weatherFactor))
	if err != nil {
		return 0, fmt.Errorf("predict fuel: %w", err)
	}
	return round2(v), nil
}

func fuelFeatures(speedKph, cargoKg, weatherFactor float64) []float64 {
	f := make([]float64, fuelFeatureWidth)
	f[0], f[1], f[2] = speedKph, cargoKg, weatherFactor
	return f
}
