package dto

import "time"

type MaintenanceAlertResponse struct {
	ShipID                   string     `json:"shipId"`
	ShipEngineType           string     `json:"shipEngineType"`
	AlertLevel               string     `json:"alertLevel"`
	Reason                   string     `json:"reason"`
	PredictedNextServiceDate *time.Time `json:"predictedNextServiceDate"`
}

type ListMaintenanceAlertsResponse struct {
	Alerts []MaintenanceAlertResponse `json:"alerts"`
}

type ReadinessResponse struct {
	Status           string `json:"status"`
	FuelModel        bool   `json:"fuelModel"`
	MaintenanceModel bool   `json:"maintenanceModel"`
}
