package repositories

import (
	"context"
	"testing"
	"time"
	"voyage-planner-service/internal/domain"
	"voyage-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreVoyageLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	ship := s.AddShip(domain.Ship{Name: "Northern Star", EngineType: "diesel"})

	dep := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	created, err := s.CreateVoyage(ctx, domain.Voyage{
		ShipID:        ship.ID,
		Origin:        "Rotterdam",
		Destination:   "Oslo",
		DepartureTime: dep,
		CargoKg:       1000,
		Weather:       domain.WeatherCalm,
		Plan:          domain.VoyagePlan{ETA: dep.Add(20 * time.Hour), FuelKg: 5000, Route: []string{"Rotterdam", "Oslo"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.Ship)
	assert.Equal(t, "Northern Star", created.Ship.Name)
	assert.Nil(t, created.Actuals)

	// Returned voyages are copies.
	created.Plan.Route[0] = "changed"
	got, err := s.GetVoyage(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rotterdam", got.Plan.Route[0])

	updated, err := s.RecordActuals(ctx, created.ID, domain.VoyageActuals{ETA: dep.Add(22 * time.Hour), FuelKg: 5300, Notes: "late"})
	require.NoError(t, err)
	require.NotNil(t, updated.Actuals)
	assert.Equal(t, 5300.0, updated.Actuals.FuelKg)

	require.NoError(t, s.CreateFuelLog(ctx, domain.FuelLog{VoyageID: created.ID, Timestamp: dep, SpeedKph: 40, FuelBurnRate: 470}))
	logs, err := s.FetchFuelLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].Voyage)
	assert.Equal(t, 1000.0, logs[0].Voyage.CargoKg)
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.CreateVoyage(ctx, domain.Voyage{ShipID: "missing"})
	assert.ErrorIs(t, err, ports.ErrNotFound)

	_, err = s.GetVoyage(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	_, err = s.RecordActuals(ctx, "missing", domain.VoyageActuals{})
	assert.ErrorIs(t, err, ports.ErrNotFound)

	err = s.CreateFuelLog(ctx, domain.FuelLog{VoyageID: "missing"})
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestMemoryStoreListVoyagesOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	ship := s.AddShip(domain.Ship{Name: "A"})

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range []int{3, 1, 2} {
		_, err := s.CreateVoyage(ctx, domain.Voyage{ShipID: ship.ID, DepartureTime: base.AddDate(0, 0, d)})
		require.NoError(t, err)
	}

	voyages, err := s.ListVoyages(ctx)
	require.NoError(t, err)
	require.Len(t, voyages, 3)
	assert.Equal(t, base.AddDate(0, 0, 3), voyages[0].DepartureTime)
	assert.Equal(t, base.AddDate(0, 0, 2), voyages[1].DepartureTime)
	assert.Equal(t, base.AddDate(0, 0, 1), voyages[2].DepartureTime)
}

func TestMemoryStoreMaintenance(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	ship := s.AddShip(domain.Ship{Name: "Coral Meridian", EngineType: "MAN"})
	s.AddMaintenance(domain.MaintenanceRecord{ShipID: ship.ID, TotalEngineHours: 1200})

	records, err := s.ListMaintenance(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Ship)
	assert.Equal(t, "Coral Meridian", records[0].Ship.Name)

	training, err := s.FetchMaintenanceRecords(ctx)
	require.NoError(t, err)
	require.Len(t, training, 1)
	assert.Equal(t, 1200.0, training[0].TotalEngineHours)
}
