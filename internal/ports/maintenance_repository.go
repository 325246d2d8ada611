package ports

import (
	"context"
	"voyage-planner-service/internal/domain"
)

// Port: read access to maintenance records for alerting.
type MaintenanceRepository interface {
	// Return all maintenance records with the ship populated.
	ListMaintenance(ctx context.Context) ([]domain.MaintenanceRecord, error)
}
