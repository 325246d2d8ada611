package dto

import "time"

type PlanVoyageRequest struct {
	ShipID        string     `json:"shipId"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureTime *time.Time `json:"departureTime"`
	Weather       string     `json:"weather"`
	CargoKg       *float64   `json:"cargoKg"`
}

type VoyagePlanResponse struct {
	ETA              time.Time `json:"eta"`
	FuelKg           float64   `json:"fuelKg"`
	Route            []string  `json:"route"`
	SpeedScheduleKph float64   `json:"speedScheduleKph"`
}

type PlanVoyageResponse struct {
	VoyageID string `json:"voyageId"`
	VoyagePlanResponse
}

type ShipResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EngineType string `json:"engineType"`
}

type VoyageActualsResponse struct {
	ETA    time.Time `json:"eta"`
	FuelKg float64   `json:"fuelKg"`
	Notes  string    `json:"notes"`
}

type VoyageResponse struct {
	ID            string                 `json:"id"`
	ShipID        string                 `json:"shipId"`
	Ship          *ShipResponse          `json:"ship,omitempty"`
	Origin        string                 `json:"origin"`
	Destination   string                 `json:"destination"`
	DepartureTime time.Time              `json:"departureTime"`
	CargoKg       float64                `json:"cargoKg"`
	Weather       string                 `json:"weather"`
	Plan          VoyagePlanResponse     `json:"plan"`
	Actuals       *VoyageActualsResponse `json:"actuals"`
}

type ListVoyagesResponse struct {
	Voyages []VoyageResponse `json:"voyages"`
}

type FeedbackRequest struct {
	VoyageID        string     `json:"voyageId"`
	ActualFuelUsed  *float64   `json:"actualFuelUsed"`
	ActualTimeTaken *time.Time `json:"actualTimeTaken"`
	Notes           string     `json:"notes"`
}
