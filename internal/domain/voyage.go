package domain

import "time"

// A vessel operated by the platform.
type Ship struct {
	ID         string
	Name       string
	EngineType string
}

// Planned figures stored with a voyage at planning time.
type VoyagePlan struct {
	ETA              time.Time `json:"eta"`
	FuelKg           float64   `json:"fuelKg"`
	Route            []string  `json:"route"`
	SpeedScheduleKph float64   `json:"speedScheduleKph"`
}

// Observed figures reported once a voyage is complete.
type VoyageActuals struct {
	ETA    time.Time `json:"eta"`
	FuelKg float64   `json:"fuelKg"`
	Notes  string    `json:"notes"`
}

// Represents a single planned sailing of a ship between two ports.
// Actuals stays nil until feedback for the voyage has been submitted.
type Voyage struct {
	ID            string
	ShipID        string
	Ship          *Ship
	Origin        string
	Destination   string
	DepartureTime time.Time
	CargoKg       float64
	Weather       Weather
	Plan          VoyagePlan
	Actuals       *VoyageActuals
}

// A fuel consumption observation taken during a voyage.
// Voyage is populated by providers that join the parent voyage.
type FuelLog struct {
	ID           string
	VoyageID     string
	Timestamp    time.Time
	SpeedKph     float64
	FuelBurnRate float64
	Voyage       *Voyage
}
