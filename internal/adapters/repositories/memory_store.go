package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"voyage-planner-service/internal/domain"
	"voyage-planner-service/internal/ports"

	"github.com/google/uuid"
)

// In-process implementation of the voyage, maintenance and historical data
// ports. Records are copied on the way in and out.
type MemoryStore struct {
	mu          sync.RWMutex
	ships       map[string]domain.Ship
	voyages     map[string]domain.Voyage
	fuelLogs    []domain.FuelLog
	maintenance []domain.MaintenanceRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ships:   make(map[string]domain.Ship),
		voyages: make(map[string]domain.Voyage),
	}
}

// Add a ship, assigning an ID when empty.
func (s *MemoryStore) AddShip(ship domain.Ship) domain.Ship {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ship.ID == "" {
		ship.ID = uuid.NewString()
	}
	s.ships[ship.ID] = ship
	return ship
}

// Add a maintenance record, assigning an ID when empty.
func (s *MemoryStore) AddMaintenance(rec domain.MaintenanceRecord) domain.MaintenanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.Ship = nil
	s.maintenance = append(s.maintenance, rec)
	return rec
}

func (s *MemoryStore) CreateVoyage(ctx context.Context, v domain.Voyage) (*domain.Voyage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ships[v.ShipID]; !ok {
		return nil, fmt.Errorf("create voyage: ship %q: %w", v.ShipID, ports.ErrNotFound)
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.Ship = nil
	v.Plan.Route = slices.Clone(v.Plan.Route)
	s.voyages[v.ID] = v

	return s.voyageLocked(v), nil
}

func (s *MemoryStore) GetVoyage(ctx context.Context, id string) (*domain.Voyage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.voyages[id]
	if !ok {
		return nil, fmt.Errorf("get voyage %q: %w", id, ports.ErrNotFound)
	}
	return s.voyageLocked(v), nil
}

func (s *MemoryStore) ListVoyages(ctx context.Context) ([]*domain.Voyage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Voyage, 0, len(s.voyages))
	for _, v := range s.voyages {
		out = append(out, s.voyageLocked(v))
	}
	slices.SortFunc(out, func(a, b *domain.Voyage) int {
		if c := b.DepartureTime.Compare(a.DepartureTime); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *MemoryStore) RecordActuals(ctx context.Context, voyageID string, actuals domain.VoyageActuals) (*domain.Voyage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.voyages[voyageID]
	if !ok {
		return nil, fmt.Errorf("record actuals for %q: %w", voyageID, ports.ErrNotFound)
	}
	v.Actuals = &actuals
	s.voyages[voyageID] = v
	return s.voyageLocked(v), nil
}

func (s *MemoryStore) CreateFuelLog(ctx context.Context, log domain.FuelLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.voyages[log.VoyageID]; !ok {
		return fmt.Errorf("create fuel log: voyage %q: %w", log.VoyageID, ports.ErrNotFound)
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	log.Voyage = nil
	s.fuelLogs = append(s.fuelLogs, log)
	return nil
}

func (s *MemoryStore) FetchFuelLogs(ctx context.Context) ([]domain.FuelLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.FuelLog, 0, len(s.fuelLogs))
	for _, l := range s.fuelLogs {
		l.Voyage = s.voyageLocked(s.voyages[l.VoyageID])
		out = append(out, l)
	}
	return out, nil
}

func (s *MemoryStore) FetchMaintenanceRecords(ctx context.Context) ([]domain.MaintenanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.maintenance), nil
}

func (s *MemoryStore) ListMaintenance(ctx context.Context) ([]domain.MaintenanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MaintenanceRecord, 0, len(s.maintenance))
	for _, rec := range s.maintenance {
		if ship, ok := s.ships[rec.ShipID]; ok {
			rec.Ship = &ship
		}
		out = append(out, rec)
	}
	return out, nil
}

// voyageLocked returns a detached copy of v with its ship populated.
// The caller must hold s.mu.
func (s *MemoryStore) voyageLocked(v domain.Voyage) *domain.Voyage {
	v.Plan.Route = slices.Clone(v.Plan.Route)
	if v.Actuals != nil {
		a := *v.Actuals
		v.Actuals = &a
	}
	if ship, ok := s.ships[v.ShipID]; ok {
		v.Ship = &ship
	}
	return &v
}
