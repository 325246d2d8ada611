package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strings"
	"time"
	"voyage-planner-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const fuelLogsPerVoyage = 150

type ShipSeed struct {
	Name       string `json:"name"`
	EngineType string `json:"engineType"`
}

type VoyagePlanSeed struct {
	FuelKg           float64 `json:"fuelKg"`
	SpeedScheduleKph float64 `json:"speedScheduleKph"`
}

type VoyageActualsSeed struct {
	FuelKg float64 `json:"fuelKg"`
	Notes  string  `json:"notes"`
}

type VoyageSeed struct {
	ShipRef       int                `json:"shipRef"`
	Origin        string             `json:"origin"`
	Destination   string             `json:"destination"`
	DepartureTime time.Time          `json:"departureTime"`
	CargoKg       float64            `json:"cargoKg"`
	Weather       string             `json:"weather"`
	Plan          VoyagePlanSeed     `json:"plan"`
	Actuals       *VoyageActualsSeed `json:"actuals"`
}

type SeedFile struct {
	Ships   []ShipSeed   `json:"ships"`
	Voyages []VoyageSeed `json:"voyages"`
}

// Records generated from a seed file, ready to be written to a store.
type SeedBatch struct {
	Ships       []domain.Ship
	Maintenance []domain.MaintenanceRecord
	Voyages     []domain.Voyage
	FuelLogs    []domain.FuelLog
}

func LoadSeedFile(path string) (SeedFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("load seed: read %q: %w", path, err)
	}

	var data SeedFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return SeedFile{}, fmt.Errorf("load seed: parse json: %w", err)
	}
	return data, nil
}

// BuildSeed expands a seed file into records.
//
// Every ship gets one maintenance record serviced six months before now with
// 500-2500 engine hours. Every voyage with actuals gets 150 synthetic fuel
// logs two hours apart, with burn rate 150 + 8*speed + cargo/1500 at a speed
// drawn from 35-45 km/h.
func BuildSeed(data SeedFile, rng *rand.Rand, now time.Time) (SeedBatch, error) {
	var batch SeedBatch

	for i, s := range data.Ships {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return SeedBatch{}, fmt.Errorf("build seed: ship at index %d: name cannot be empty", i+1)
		}

		ship := domain.Ship{ID: uuid.NewString(), Name: name, EngineType: strings.TrimSpace(s.EngineType)}
		batch.Ships = append(batch.Ships, ship)

		next := now
		batch.Maintenance = append(batch.Maintenance, domain.MaintenanceRecord{
			ID:                   uuid.NewString(),
			ShipID:               ship.ID,
			LastServiceDate:      now.AddDate(0, -6, 0),
			TotalEngineHours:     uniform(rng, 500, 2500),
			PredictedNextService: &next,
		})
	}

	for i, vs := range data.Voyages {
		if vs.ShipRef < 0 || vs.ShipRef >= len(batch.Ships) {
			return SeedBatch{}, fmt.Errorf("build seed: voyage at index %d: shipRef %d out of range", i+1, vs.ShipRef)
		}
		weather, err := domain.ParseWeather(vs.Weather)
		if err != nil {
			return SeedBatch{}, fmt.Errorf("build seed: voyage at index %d: %w", i+1, err)
		}
		if vs.CargoKg < 0 {
			return SeedBatch{}, fmt.Errorf("build seed: voyage at index %d: negative cargo", i+1)
		}

		plannedETA := vs.DepartureTime.Add(time.Duration(uniform(rng, 8, 25) * float64(24*time.Hour)))
		v := domain.Voyage{
			ID:            uuid.NewString(),
			ShipID:        batch.Ships[vs.ShipRef].ID,
			Origin:        vs.Origin,
			Destination:   vs.Destination,
			DepartureTime: vs.DepartureTime,
			CargoKg:       vs.CargoKg,
			Weather:       weather,
			Plan: domain.VoyagePlan{
				ETA:              plannedETA,
				FuelKg:           vs.Plan.FuelKg,
				Route:            []string{vs.Origin, "Midpoint", vs.Destination},
				SpeedScheduleKph: vs.Plan.SpeedScheduleKph,
			},
		}

		if vs.Actuals != nil {
			v.Actuals = &domain.VoyageActuals{
				ETA:    plannedETA.Add(time.Duration(uniform(rng, -12, 24) * float64(time.Hour))),
				FuelKg: vs.Actuals.FuelKg,
				Notes:  vs.Actuals.Notes,
			}
			batch.FuelLogs = append(batch.FuelLogs, syntheticFuelLogs(v, rng)...)
		}

		batch.Voyages = append(batch.Voyages, v)
	}

	return batch, nil
}

func syntheticFuelLogs(v domain.Voyage, rng *rand.Rand) []domain.FuelLog {
	logs := make([]domain.FuelLog, 0, fuelLogsPerVoyage)
	ts := v.DepartureTime
	for i := 0; i < fuelLogsPerVoyage; i++ {
		speed := uniform(rng, 35, 45)
		logs = append(logs, domain.FuelLog{
			ID:           uuid.NewString(),
			VoyageID:     v.ID,
			Timestamp:    ts,
			SpeedKph:     round2(speed),
			FuelBurnRate: round2(150 + speed*8 + v.CargoKg/1500),
		})
		ts = ts.Add(2 * time.Hour)
	}
	return logs
}

// SeedFromJSON replaces all ships, maintenance, voyages and fuel logs with
// records generated from the seed file at jsonPath.
func SeedFromJSON(ctx context.Context, db *sqlx.DB, jsonPath string, rng *rand.Rand, now time.Time) error {
	if db == nil {
		return errors.New("seed database: DB is nil")
	}

	data, err := LoadSeedFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	batch, err := BuildSeed(data, rng, now)
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed database: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"fuel_logs", "voyages", "maintenance", "ships"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+";"); err != nil {
			return fmt.Errorf("seed database: clear %s: %w", table, err)
		}
	}

	for _, s := range batch.Ships {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ships (id, name, engine_type) VALUES ($1, $2, $3);`,
			s.ID, s.Name, s.EngineType,
		); err != nil {
			return fmt.Errorf("seed database: insert ship %q: %w", s.Name, err)
		}
	}

	for _, m := range batch.Maintenance {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO maintenance (id, ship_id, last_service_date, total_engine_hours, predicted_next_service)
		VALUES ($1, $2, $3, $4, $5);
		`, m.ID, m.ShipID, m.LastServiceDate, m.TotalEngineHours, m.PredictedNextService); err != nil {
			return fmt.Errorf("seed database: insert maintenance for ship %s: %w", m.ShipID, err)
		}
	}

	for _, v := range batch.Voyages {
		plan, err := json.Marshal(v.Plan)
		if err != nil {
			return fmt.Errorf("seed database: encode plan: %w", err)
		}
		var actuals any
		if v.Actuals != nil {
			b, err := json.Marshal(v.Actuals)
			if err != nil {
				return fmt.Errorf("seed database: encode actuals: %w", err)
			}
			actuals = string(b)
		}

		if _, err := tx.ExecContext(ctx, `
		INSERT INTO voyages (id, ship_id, origin, destination, departure_time, cargo_kg, weather, plan, actuals)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb);
		`, v.ID, v.ShipID, v.Origin, v.Destination, v.DepartureTime, v.CargoKg, string(v.Weather), string(plan), actuals); err != nil {
			return fmt.Errorf("seed database: insert voyage %s -> %s: %w", v.Origin, v.Destination, err)
		}
	}

	stmt, err := tx.PreparexContext(ctx, `
	INSERT INTO fuel_logs (id, voyage_id, logged_at, speed_kph, fuel_burn_rate)
	VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return fmt.Errorf("seed database: prepare fuel log insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range batch.FuelLogs {
		if _, err := stmt.ExecContext(ctx, l.ID, l.VoyageID, l.Timestamp, l.SpeedKph, l.FuelBurnRate); err != nil {
			return fmt.Errorf("seed database: insert fuel log for voyage %s: %w", l.VoyageID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed database: commit tx: %w", err)
	}

	return nil
}

// LoadSeed writes a seed batch into the memory store.
func (s *MemoryStore) LoadSeed(batch SeedBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ship := range batch.Ships {
		s.ships[ship.ID] = ship
	}
	for _, v := range batch.Voyages {
		s.voyages[v.ID] = v
	}
	s.maintenance = append(s.maintenance, batch.Maintenance...)
	s.fuelLogs = append(s.fuelLogs, batch.FuelLogs...)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
