package domain

import "time"

// Engine service state for a ship.
type MaintenanceRecord struct {
	ID                   string
	ShipID               string
	Ship                 *Ship
	LastServiceDate      time.Time
	TotalEngineHours     float64
	PredictedNextService *time.Time
}

type AlertLevel string

const (
	AlertOK       AlertLevel = "OK"
	AlertWarning  AlertLevel = "WARNING"
	AlertCritical AlertLevel = "CRITICAL"
)

// Result of evaluating a ship's engine against service thresholds.
// PredictedNextServiceDate is nil when the alert bypassed the model.
type MaintenanceAlert struct {
	Level                    AlertLevel
	PredictedNextServiceDate *time.Time
	Reason                   string
}
