package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createShipsQuery := `
	CREATE TABLE IF NOT EXISTS ships (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		engine_type TEXT NOT NULL
	);
	`

	createMaintenanceQuery := `
	CREATE TABLE IF NOT EXISTS maintenance (
		id UUID PRIMARY KEY,
		ship_id UUID NOT NULL REFERENCES ships(id) ON DELETE CASCADE,
		last_service_date TIMESTAMPTZ NOT NULL,
		total_engine_hours DOUBLE PRECISION NOT NULL,
		predicted_next_service TIMESTAMPTZ
	);
	`

	createVoyagesQuery := `
	CREATE TABLE IF NOT EXISTS voyages (
		id UUID PRIMARY KEY,
		ship_id UUID NOT NULL REFERENCES ships(id) ON DELETE CASCADE,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		departure_time TIMESTAMPTZ NOT NULL,
		cargo_kg DOUBLE PRECISION NOT NULL,
		weather TEXT NOT NULL,
		plan JSONB NOT NULL,
		actuals JSONB
	);
	`

	createFuelLogsQuery := `
	CREATE TABLE IF NOT EXISTS fuel_logs (
		id UUID PRIMARY KEY,
		voyage_id UUID NOT NULL REFERENCES voyages(id) ON DELETE CASCADE,
		logged_at TIMESTAMPTZ NOT NULL,
		speed_kph DOUBLE PRECISION NOT NULL,
		fuel_burn_rate DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQueries := []string{
		`CREATE INDEX IF NOT EXISTS idx_voyages_departure_time ON voyages(departure_time DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_fuel_logs_voyage_id ON fuel_logs(voyage_id);`,
		`CREATE INDEX IF NOT EXISTS idx_maintenance_ship_id ON maintenance(ship_id);`,
	}

	statements := []string{
		createShipsQuery,
		createMaintenanceQuery,
		createVoyagesQuery,
		createFuelLogsQuery,
	}
	statements = append(statements, createIndexQueries...)

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
