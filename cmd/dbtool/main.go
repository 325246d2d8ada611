package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"voyage-planner-service/internal/adapters/repositories"
	"voyage-planner-service/internal/platform/db"
	"voyage-planner-service/internal/platform/logging"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	seedPath string
	randSeed int64
	logger   = logging.New("dbtool")
)

var rootCmd = &cobra.Command{
	Use:           "dbtool",
	Short:         "Manage the voyage planner database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create tables and indexes if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, conn *sqlx.DB) error {
			logger.Info().Msg("initializing database schema")
			if err := repositories.InitSchema(ctx, conn); err != nil {
				return err
			}
			logger.Info().Msg("schema ready")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Initialize the schema and replace all data with the seed file contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, conn *sqlx.DB) error {
			if err := repositories.InitSchema(ctx, conn); err != nil {
				return err
			}

			s := uint64(randSeed)
			if randSeed == 0 {
				s = uint64(time.Now().UnixNano())
			}
			rng := rand.New(rand.NewPCG(s, s>>1|1))

			path := seedPath
			if path == "" {
				path = os.Getenv("SEED_PATH")
			}
			if path == "" {
				path = "data/seeds/seed-data.json"
			}

			logger.Info().Str("path", path).Msg("seeding database")
			if err := repositories.SeedFromJSON(ctx, conn, path, rng, time.Now()); err != nil {
				return err
			}
			logger.Info().Msg("seeding complete")
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPath, "file", "", "seed data JSON file (default $SEED_PATH or data/seeds/seed-data.json)")
	seedCmd.Flags().Int64Var(&randSeed, "rand-seed", 0, "seed for synthetic values; 0 picks one from the clock")

	rootCmd.AddCommand(initCmd, seedCmd)
}

func withDB(ctx context.Context, fn func(context.Context, *sqlx.DB) error) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(ctx, conn)
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("dbtool failed")
		stop()
		os.Exit(1)
	}
}
