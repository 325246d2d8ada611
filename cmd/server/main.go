package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"voyage-planner-service/internal/adapters/repositories"
	"voyage-planner-service/internal/api"
	"voyage-planner-service/internal/config"
	"voyage-planner-service/internal/platform/db"
	"voyage-planner-service/internal/platform/logging"
	"voyage-planner-service/internal/platform/obs"
	"voyage-planner-service/internal/ports"
	"voyage-planner-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

type store interface {
	ports.VoyageRepository
	ports.MaintenanceRepository
	ports.HistoricalDataProvider
}

// main is the application composition root.
// It wires the storage adapter and prediction engine behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	logger := logging.New("server")
	if envErr != nil {
		logger.Info().Msg("no .env file found (using environment variables)")
	}

	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := obs.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	engine := services.NewPredictionEngine(st,
		services.WithLogger(logging.New("prediction-engine")),
		services.WithMetrics(metrics),
		services.WithSeed(cfg.TrainingSeed),
	)

	// Training must finish before prediction traffic is accepted.
	trainCtx, cancel := context.WithTimeout(ctx, cfg.TrainingTimeout)
	err = engine.Initialize(trainCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("initialize prediction engine: %w", err)
	}

	deps := api.Deps{
		Voyages:     st,
		Maintenance: st,
		Engine:      engine,
		Logger:      logging.New("http"),
		Metrics:     metrics,
	}
	if cfg.MetricsEnabled {
		deps.Gatherer = reg
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store, func(), error) {
	rng := seedRNG(cfg.TrainingSeed)

	if cfg.Storage == config.StorageMemory {
		mem := repositories.NewMemoryStore()
		if cfg.SeedOnStart {
			data, err := repositories.LoadSeedFile(cfg.SeedPath)
			if err != nil {
				return nil, nil, err
			}
			batch, err := repositories.BuildSeed(data, rng, time.Now())
			if err != nil {
				return nil, nil, err
			}
			mem.LoadSeed(batch)
			logger.Info().Int("voyages", len(batch.Voyages)).Int("fuel_logs", len(batch.FuelLogs)).Msg("memory store seeded")
		}
		return mem, func() {}, nil
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { _ = conn.Close() }

	if err := repositories.InitSchema(ctx, conn); err != nil {
		closeFn()
		return nil, nil, err
	}
	if cfg.SeedOnStart {
		if err := repositories.SeedFromJSON(ctx, conn, cfg.SeedPath, rng, time.Now()); err != nil {
			closeFn()
			return nil, nil, err
		}
		logger.Info().Str("path", cfg.SeedPath).Msg("database seeded")
	}

	return repositories.NewPostgresStore(conn), closeFn, nil
}

// seedRNG returns a generator for synthetic seed data. Zero means time-seeded.
func seedRNG(seed int64) *rand.Rand {
	s := uint64(seed)
	if seed == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(s, s>>1|1))
}
