package ports

import (
	"context"
	"errors"
	"voyage-planner-service/internal/domain"
)

// ErrNotFound is returned by repositories when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Port: persistence of voyages and the fuel logs derived from them.
type VoyageRepository interface {
	// Store a new voyage and return it with its assigned ID.
	CreateVoyage(ctx context.Context, v domain.Voyage) (*domain.Voyage, error)
	// Return one voyage by ID, or ErrNotFound.
	GetVoyage(ctx context.Context, id string) (*domain.Voyage, error)
	// Return all voyages, latest departure first, with the ship populated.
	ListVoyages(ctx context.Context) ([]*domain.Voyage, error)
	// Attach observed actuals to a voyage and return the updated voyage.
	RecordActuals(ctx context.Context, voyageID string, actuals domain.VoyageActuals) (*domain.Voyage, error)
	// Store a fuel log observation.
	CreateFuelLog(ctx context.Context, log domain.FuelLog) error
}
