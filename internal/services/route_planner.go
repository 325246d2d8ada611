package services

import (
	"math"
	"unicode/utf8"
	"voyage-planner-service/internal/domain"
)

const (
	minDistanceKm     = 500.0
	kmPerNameChar     = 50.0
	baseSpeedKph      = 40.0
	stormySpeedFactor = 0.75
	moderateSpeedFactor = 0.9
	minCargoFactor    = 0.8
	cargoScaleKg      = 1_000_000.0

	StormyWarning = "Stormy weather will significantly increase travel time."
)

// Parameters of a voyage to be routed.
type RouteInput struct {
	Origin      string
	Destination string
	Weather     domain.Weather
	CargoKg     float64
}

// PlanRoute estimates distance, speed and ETA for a voyage.
//
// Distance is a placeholder derived from the port name lengths, floored at
// 500 km; it is not a geospatial calculation. Weather and cargo only ever
// reduce the 40 km/h base speed. The function is pure: identical input
// always yields identical output.
func PlanRoute(in RouteInput) domain.RoutePlan {
	warnings := []string{}

	nameChars := utf8.RuneCountInString(in.Origin) + utf8.RuneCountInString(in.Destination)
	distanceKm := math.Max(minDistanceKm, float64(nameChars)*kmPerNameChar)

	speed := baseSpeedKph
	switch in.Weather {
	case domain.WeatherStormy:
		speed *= stormySpeedFactor
		warnings = append(warnings, StormyWarning)
	case domain.WeatherModerate:
		speed *= moderateSpeedFactor
	}

	// Negative cargo would raise the factor above 1; clamp so cargo never speeds a ship up.
	cargoFactor := math.Min(1, math.Max(minCargoFactor, 1-in.CargoKg/cargoScaleKg))
	speed *= cargoFactor

	return domain.RoutePlan{
		EtaHours:          round2(distanceKm / speed),
		DistanceKm:        distanceKm,
		SuggestedSpeedKph: round2(speed),
		Route:             []string{in.Origin, "Waypoint-A", "Waypoint-B", in.Destination},
		Warnings:          warnings,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
