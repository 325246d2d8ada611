package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
	"voyage-planner-service/internal/domain"
	"voyage-planner-service/internal/platform/obs"
	"voyage-planner-service/internal/ports"
	"voyage-planner-service/internal/regression"

	"github.com/rs/zerolog"
)

var (
	// ErrModelUnready is reported when a prediction needs a model that never trained.
	ErrModelUnready = errors.New("prediction model is not ready")
	// ErrAlreadyInitialized is returned by a second call to Initialize.
	ErrAlreadyInitialized = errors.New("prediction engine already initialized")
)

const (
	fuelModelName        = "fuel"
	maintenanceModelName = "maintenance"
)

// EngineState is the lifecycle stage of a PredictionEngine.
type EngineState int32

const (
	StateUninitialized EngineState = iota
	StateInitializing
	StateReady
)

func (s EngineState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Readiness summarizes the engine lifecycle and which models can serve.
type Readiness struct {
	State            EngineState
	FuelModel        bool
	MaintenanceModel bool
}

// PredictionEngine owns the fuel and maintenance models and serves
// predictions from them.
//
// Initialize trains both models once. A model whose data is missing or whose
// training fails stays unavailable; the engine still becomes ready. Fitted
// models are published atomically and never mutated, so prediction methods
// are safe for concurrent use.
type PredictionEngine struct {
	provider ports.HistoricalDataProvider
	logger   zerolog.Logger
	metrics  *obs.Metrics
	now      func() time.Time

	fuelCfg        regression.Config
	maintenanceCfg regression.Config

	state       atomic.Int32
	fuel        atomic.Pointer[FuelModel]
	maintenance atomic.Pointer[MaintenanceModel]
}

type EngineOption func(*PredictionEngine)

func WithLogger(l zerolog.Logger) EngineOption {
	return func(e *PredictionEngine) { e.logger = l }
}

func WithMetrics(m *obs.Metrics) EngineOption {
	return func(e *PredictionEngine) { e.metrics = m }
}

// WithClock replaces time.Now as the reference time for maintenance alerts.
func WithClock(now func() time.Time) EngineOption {
	return func(e *PredictionEngine) { e.now = now }
}

func WithFuelConfig(cfg regression.Config) EngineOption {
	return func(e *PredictionEngine) { e.fuelCfg = cfg }
}

func WithMaintenanceConfig(cfg regression.Config) EngineOption {
	return func(e *PredictionEngine) { e.maintenanceCfg = cfg }
}

// WithSeed makes training of both models reproducible. Zero keeps the
// randomized initialization.
func WithSeed(seed int64) EngineOption {
	return func(e *PredictionEngine) {
		e.fuelCfg.Seed = seed
		e.maintenanceCfg.Seed = seed
	}
}

// WithModels installs already fitted models. Either may be nil.
func WithModels(fuel *FuelModel, maintenance *MaintenanceModel) EngineOption {
	return func(e *PredictionEngine) {
		if fuel != nil {
			e.fuel.Store(fuel)
		}
		if maintenance != nil {
			e.maintenance.Store(maintenance)
		}
	}
}

func NewPredictionEngine(provider ports.HistoricalDataProvider, opts ...EngineOption) *PredictionEngine {
	e := &PredictionEngine{
		provider:       provider,
		logger:         zerolog.Nop(),
		now:            time.Now,
		fuelCfg:        regression.DefaultConfig(),
		maintenanceCfg: regression.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *PredictionEngine) State() EngineState {
	return EngineState(e.state.Load())
}

func (e *PredictionEngine) Readiness() Readiness {
	return Readiness{
		State:            e.State(),
		FuelModel:        e.fuelModel() != nil,
		MaintenanceModel: e.maintenanceModel() != nil,
	}
}

// fuelModel returns the model serving fuel predictions. Nothing serves while
// Initialize is running, even a model published by an earlier training step.
func (e *PredictionEngine) fuelModel() *FuelModel {
	if e.State() == StateInitializing {
		return nil
	}
	return e.fuel.Load()
}

func (e *PredictionEngine) maintenanceModel() *MaintenanceModel {
	if e.State() == StateInitializing {
		return nil
	}
	return e.maintenance.Load()
}

// Initialize fetches historical data and trains both models. It runs at most
// once; later calls return ErrAlreadyInitialized. Per-model failures are
// logged and leave that model unavailable; they are never returned.
func (e *PredictionEngine) Initialize(ctx context.Context) error {
	if !e.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitializing)) {
		return ErrAlreadyInitialized
	}
	e.logger.Info().Msg("prediction engine initialization started")

	e.trainFuel(ctx)
	e.trainMaintenance(ctx)

	e.state.Store(int32(StateReady))

	r := e.Readiness()
	e.metrics.SetModelReady(fuelModelName, r.FuelModel)
	e.metrics.SetModelReady(maintenanceModelName, r.MaintenanceModel)
	e.logger.Info().
		Bool("fuel_model", r.FuelModel).
		Bool("maintenance_model", r.MaintenanceModel).
		Msg("prediction engine ready")
	return nil
}

func (e *PredictionEngine) trainFuel(ctx context.Context) {
	start := time.Now()

	logs, err := e.provider.FetchFuelLogs(ctx)
	if err != nil {
		e.recordTraining(fuelModelName, 0, nil, fmt.Errorf("fetch fuel logs: %w", err), start)
		return
	}

	var (
		model  *FuelModel
		fitted *regression.Model
	)
	err = guardTraining(func() (err error) {
		model, fitted, err = TrainFuelModel(ctx, logs, e.fuelCfg)
		return err
	})
	e.recordTraining(fuelModelName, len(logs), fitted, err, start)
	if err == nil {
		e.fuel.Store(model)
	}
}

func (e *PredictionEngine) trainMaintenance(ctx context.Context) {
	start := time.Now()

	records, err := e.provider.FetchMaintenanceRecords(ctx)
	if err != nil {
		e.recordTraining(maintenanceModelName, 0, nil, fmt.Errorf("fetch maintenance records: %w", err), start)
		return
	}

	var (
		model  *MaintenanceModel
		fitted *regression.Model
	)
	err = guardTraining(func() (err error) {
		model, fitted, err = TrainMaintenanceModel(ctx, records, e.maintenanceCfg)
		return err
	})
	e.recordTraining(maintenanceModelName, len(records), fitted, err, start)
	if err == nil {
		e.maintenance.Store(model)
	}
}

// guardTraining converts a panic inside fitting into an error so one broken
// model cannot take down initialization.
func guardTraining(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("training panicked: %v", r)
		}
	}()
	return fn()
}

func (e *PredictionEngine) recordTraining(model string, records int, fitted *regression.Model, err error, start time.Time) {
	dur := time.Since(start)

	switch {
	case errors.Is(err, regression.ErrEmptyTrainingSet):
		e.logger.Warn().Str("model", model).Msg("no training records found; model unavailable")
		e.metrics.ObserveTraining(model, "unavailable", dur)
	case err != nil:
		e.logger.Error().Err(err).Str("model", model).Int("records", records).Msg("model training failed; model unavailable")
		e.metrics.ObserveTraining(model, "failed", dur)
	default:
		e.logger.Info().
			Str("model", model).
			Int("records", records).
			Float64("loss", fitted.Loss()).
			Dur("took", dur).
			Msg("model trained")
		e.metrics.ObserveTraining(model, "trained", dur)
	}
}

// PlanRoute needs no trained model and may be called in any state.
func (e *PredictionEngine) PlanRoute(in RouteInput) domain.RoutePlan {
	return PlanRoute(in)
}

// PredictFuel returns the predicted burn rate in kg/h, or StatusUnavailable
// when the fuel model has not been trained or Initialize is still running.
func (e *PredictionEngine) PredictFuel(speedKph, cargoKg, weatherFactor float64) Result[float64] {
	res := e.predictFuel(speedKph, cargoKg, weatherFactor)
	e.metrics.ObservePrediction(fuelModelName, res.Status.String())
	return res
}

func (e *PredictionEngine) predictFuel(speedKph, cargoKg, weatherFactor float64) Result[float64] {
	model := e.fuelModel()
	if model == nil {
		return Unavailable[float64]()
	}

	v, err := model.Predict(speedKph, cargoKg, weatherFactor)
	if err != nil {
		return Failed[float64](err)
	}
	return Ready(v)
}

// PredictMaintenance evaluates an engine. Engines overdue for service are
// CRITICAL regardless of model state; otherwise a missing model, or a call
// made while Initialize is running, yields StatusFailed with ErrModelUnready.
func (e *PredictionEngine) PredictMaintenance(totalEngineHours float64, lastService time.Time) Result[domain.MaintenanceAlert] {
	alert, err := EvaluateMaintenance(e.maintenanceModel(), totalEngineHours, lastService, e.now())
	if err != nil {
		e.metrics.ObservePrediction(maintenanceModelName, StatusFailed.String())
		return Failed[domain.MaintenanceAlert](err)
	}

	e.metrics.ObservePrediction(maintenanceModelName, StatusReady.String())
	e.metrics.ObserveAlert(string(alert.Level))
	return Ready(alert)
}
