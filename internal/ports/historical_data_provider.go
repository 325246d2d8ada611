package ports

import (
	"context"
	"voyage-planner-service/internal/domain"
)

// Source of historical records the prediction models are trained on.
// Both methods may return an empty slice; that is not an error.
type HistoricalDataProvider interface {
	// Return every fuel log with its parent voyage populated.
	FetchFuelLogs(ctx context.Context) ([]domain.FuelLog, error)
	// Return every maintenance record.
	FetchMaintenanceRecords(ctx context.Context) ([]domain.MaintenanceRecord, error)
}
