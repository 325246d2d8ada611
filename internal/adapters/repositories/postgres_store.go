package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"voyage-planner-service/internal/domain"
	"voyage-planner-service/internal/platform/obs"
	"voyage-planner-service/internal/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Postgres-backed implementation of the voyage, maintenance and historical
// data ports.
type PostgresStore struct{ DB *sqlx.DB }

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

type voyageRow struct {
	ID             string         `db:"id"`
	ShipID         string         `db:"ship_id"`
	ShipName       string         `db:"ship_name"`
	ShipEngineType string         `db:"ship_engine_type"`
	Origin         string         `db:"origin"`
	Destination    string         `db:"destination"`
	DepartureTime  time.Time      `db:"departure_time"`
	CargoKg        float64        `db:"cargo_kg"`
	Weather        string         `db:"weather"`
	Plan           string         `db:"plan"`
	Actuals        sql.NullString `db:"actuals"`
}

func (r voyageRow) toDomain() (*domain.Voyage, error) {
	v := &domain.Voyage{
		ID:            r.ID,
		ShipID:        r.ShipID,
		Ship:          &domain.Ship{ID: r.ShipID, Name: r.ShipName, EngineType: r.ShipEngineType},
		Origin:        r.Origin,
		Destination:   r.Destination,
		DepartureTime: r.DepartureTime,
		CargoKg:       r.CargoKg,
		Weather:       domain.Weather(r.Weather),
	}
	if err := json.Unmarshal([]byte(r.Plan), &v.Plan); err != nil {
		return nil, fmt.Errorf("decode plan of voyage %s: %w", r.ID, err)
	}
	if r.Actuals.Valid {
		var a domain.VoyageActuals
		if err := json.Unmarshal([]byte(r.Actuals.String), &a); err != nil {
			return nil, fmt.Errorf("decode actuals of voyage %s: %w", r.ID, err)
		}
		v.Actuals = &a
	}
	return v, nil
}

const selectVoyages = `
	SELECT
		v.id,
		v.ship_id,
		s.name AS ship_name,
		s.engine_type AS ship_engine_type,
		v.origin,
		v.destination,
		v.departure_time,
		v.cargo_kg,
		v.weather,
		v.plan::text AS plan,
		v.actuals::text AS actuals
	FROM voyages v
	JOIN ships s ON s.id = v.ship_id
`

func (s *PostgresStore) CreateVoyage(ctx context.Context, v domain.Voyage) (_ *domain.Voyage, err error) {
	defer obs.Time(ctx, "voyages.CreateVoyage")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres store: DB is nil")
	}
	if _, err := uuid.Parse(v.ShipID); err != nil {
		return nil, fmt.Errorf("create voyage: ship %q: %w", v.ShipID, ports.ErrNotFound)
	}

	plan, err := json.Marshal(v.Plan)
	if err != nil {
		return nil, fmt.Errorf("create voyage: encode plan: %w", err)
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}

	var actuals any
	if v.Actuals != nil {
		b, err := json.Marshal(v.Actuals)
		if err != nil {
			return nil, fmt.Errorf("create voyage: encode actuals: %w", err)
		}
		actuals = string(b)
	}

	q := `
	INSERT INTO voyages (id, ship_id, origin, destination, departure_time, cargo_kg, weather, plan, actuals)
	SELECT $1::uuid, s.id, $3::text, $4::text, $5::timestamptz, $6::double precision, $7::text, $8::jsonb, $9::jsonb
	FROM ships s
	WHERE s.id = $2::uuid;
	`
	res, err := s.DB.ExecContext(ctx, q,
		v.ID, v.ShipID, v.Origin, v.Destination, v.DepartureTime, v.CargoKg, string(v.Weather), string(plan), actuals,
	)
	if err != nil {
		return nil, fmt.Errorf("create voyage: insert: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("create voyage: ship %q: %w", v.ShipID, ports.ErrNotFound)
	}

	return s.GetVoyage(ctx, v.ID)
}

func (s *PostgresStore) GetVoyage(ctx context.Context, id string) (_ *domain.Voyage, err error) {
	defer obs.Time(ctx, "voyages.GetVoyage")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres store: DB is nil")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get voyage %q: %w", id, ports.ErrNotFound)
	}

	var row voyageRow
	if err := s.DB.GetContext(ctx, &row, selectVoyages+` WHERE v.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get voyage %q: %w", id, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("get voyage %q: %w", id, err)
	}
	return row.toDomain()
}

func (s *PostgresStore) ListVoyages(ctx context.Context) (_ []*domain.Voyage, err error) {
	defer obs.Time(ctx, "voyages.ListVoyages")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres store: DB is nil")
	}

	var rows []voyageRow
	if err := s.DB.SelectContext(ctx, &rows, selectVoyages+` ORDER BY v.departure_time DESC, v.id`); err != nil {
		return nil, fmt.Errorf("list voyages: query voyages table: %w", err)
	}

	out := make([]*domain.Voyage, 0, len(rows))
	for _, r := range rows {
		v, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("list voyages: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *PostgresStore) RecordActuals(ctx context.Context, voyageID string, actuals domain.VoyageActuals) (_ *domain.Voyage, err error) {
	defer obs.Time(ctx, "voyages.RecordActuals")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres store: DB is nil")
	}
	if _, err := uuid.Parse(voyageID); err != nil {
		return nil, fmt.Errorf("record actuals for %q: %w", voyageID, ports.ErrNotFound)
	}

	b, err := json.Marshal(actuals)
	if err != nil {
		return nil, fmt.Errorf("record actuals: encode: %w", err)
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE voyages SET actuals = $2::jsonb WHERE id = $1;`, voyageID, string(b))
	if err != nil {
		return nil, fmt.Errorf("record actuals for %q: update: %w", voyageID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("record actuals for %q: rows affected: %w", voyageID, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("record actuals for %q: %w", voyageID, ports.ErrNotFound)
	}

	return s.GetVoyage(ctx, voyageID)
}

func (s *PostgresStore) CreateFuelLog(ctx context.Context, log domain.FuelLog) (err error) {
	defer obs.Time(ctx, "history.CreateFuelLog")(&err)

	if s.DB == nil {
		return errors.New("postgres store: DB is nil")
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	q := `
	INSERT INTO fuel_logs (id, voyage_id, logged_at, speed_kph, fuel_burn_rate)
	VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := s.DB.ExecContext(ctx, q, log.ID, log.VoyageID, log.Timestamp, log.SpeedKph, log.FuelBurnRate); err != nil {
		return fmt.Errorf("create fuel log for voyage %q: %w", log.VoyageID, err)
	}
	return nil
}

type fuelLogRow struct {
	ID           string    `db:"id"`
	VoyageID     string    `db:"voyage_id"`
	LoggedAt     time.Time `db:"logged_at"`
	SpeedKph     float64   `db:"speed_kph"`
	FuelBurnRate float64   `db:"fuel_burn_rate"`
	CargoKg      float64   `db:"cargo_kg"`
	Weather      string    `db:"weather"`
}

func (s *PostgresStore) FetchFuelLogs(ctx context.Context) (_ []domain.FuelLog, err error) {
	defer obs.Time(ctx, "history.FetchFuelLogs")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres store: DB is nil")
	}

	q := `
	SELECT
		f.id,
		f.voyage_id,
		f.logged_at,
		f.speed_kph,
		f.fuel_burn_rate,
		v.cargo_kg,
		v.weather
	FROM fuel_logs f
	JOIN voyages v ON v.id = f.voyage_id
	ORDER BY f.logged_at;
	`
	var rows []fuelLogRow
	if err := s.DB.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("fetch fuel logs: query fuel_logs table: %w", err)
	}

	logs := make([]domain.FuelLog, 0, len(rows))
	for _, r := range rows {
		logs = append(logs, domain.FuelLog{
			ID:           r.ID,
			VoyageID:     r.VoyageID,
			Timestamp:    r.LoggedAt,
			SpeedKph:     r.SpeedKph,
			FuelBurnRate: r.FuelBurnRate,
			Voyage: &domain.Voyage{
				ID:      r.VoyageID,
				CargoKg: r.CargoKg,
				Weather: domain.Weather(r.Weather),
			},
		})
	}
	return logs, nil
}

type maintenanceRow struct {
	ID                   string       `db:"id"`
	ShipID               string       `db:"ship_id"`
	ShipName             string       `db:"ship_name"`
	ShipEngineType       string       `db:"ship_engine_type"`
	LastServiceDate      time.Time    `db:"last_service_date"`
	TotalEngineHours     float64      `db:"total_engine_hours"`
	PredictedNextService sql.NullTime `db:"predicted_next_service"`
}

func (s *PostgresStore) ListMaintenance(ctx context.Context) (_ []domain.MaintenanceRecord, err error) {
	defer obs.Time(ctx, "maintenance.ListMaintenance")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres store: DB is nil")
	}

	q := `
	SELECT
		m.id,
		m.ship_id,
		s.name AS ship_name,
		s.engine_type AS ship_engine_type,
		m.last_service_date,
		m.total_engine_hours,
		m.predicted_next_service
	FROM maintenance m
	JOIN ships s ON s.id = m.ship_id
	ORDER BY s.name, m.id;
	`
	var rows []maintenanceRow
	if err := s.DB.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("list maintenance: query maintenance table: %w", err)
	}

	records := make([]domain.MaintenanceRecord, 0, len(rows))
	for _, r := range rows {
		rec := domain.MaintenanceRecord{
			ID:               r.ID,
			ShipID:           r.ShipID,
			Ship:             &domain.Ship{ID: r.ShipID, Name: r.ShipName, EngineType: r.ShipEngineType},
			LastServiceDate:  r.LastServiceDate,
			TotalEngineHours: r.TotalEngineHours,
		}
		if r.PredictedNextService.Valid {
			t := r.PredictedNextService.Time
			rec.PredictedNextService = &t
		}
		records = append(records, rec)
	}
	return records, nil
}

// FetchMaintenanceRecords serves the training side; it reads the same rows as ListMaintenance.
func (s *PostgresStore) FetchMaintenanceRecords(ctx context.Context) ([]domain.MaintenanceRecord, error) {
	records, err := s.ListMaintenance(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch maintenance records: %w", err)
	}
	return records, nil
}
