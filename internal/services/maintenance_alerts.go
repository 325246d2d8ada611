package services

import (
	"context"
	"fmt"
	"time"
	"voyage-planner-service/internal/domain"
	"voyage-planner-service/internal/ports"
)

// Alert for one ship that needs attention.
type ShipAlert struct {
	ShipID                   string
	EngineType               string
	Level                    domain.AlertLevel
	Reason                   string
	PredictedNextServiceDate *time.Time
}

// MaintenanceAlerts evaluates every maintenance record and returns the ships
// whose alert level is not OK. A failed evaluation aborts the listing.
func MaintenanceAlerts(
	ctx context.Context,
	predictor Predictor,
	repo ports.MaintenanceRepository,
) ([]ShipAlert, error) {
	records, err := repo.ListMaintenance(ctx)
	if err != nil {
		return nil, fmt.Errorf("maintenance alerts: list maintenance: %w", err)
	}

	alerts := make([]ShipAlert, 0, len(records))
	for _, rec := range records {
		alert, err := predictor.PredictMaintenance(rec.TotalEngineHours, rec.LastServiceDate).Get()
		if err != nil {
			return nil, fmt.Errorf("maintenance alerts: ship %q: %w", rec.ShipID, err)
		}
		if alert.Level == domain.AlertOK {
			continue
		}

		a := ShipAlert{
			ShipID:                   rec.ShipID,
			Level:                    alert.Level,
			Reason:                   alert.Reason,
			PredictedNextServiceDate: alert.PredictedNextServiceDate,
		}
		if rec.Ship != nil {
			a.EngineType = rec.Ship.EngineType
		}
		alerts = append(alerts, a)
	}

	return alerts, nil
}
