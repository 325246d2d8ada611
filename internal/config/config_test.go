package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/voyage")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "data/seeds/seed-data.json", cfg.SeedPath)
	assert.Equal(t, 2*time.Minute, cfg.TrainingTimeout)
	assert.Equal(t, int64(0), cfg.TrainingSeed)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.SeedOnStart)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE", "Memory")
	t.Setenv("PORT", "9090")
	t.Setenv("TRAINING_TIMEOUT", "45s")
	t.Setenv("TRAINING_SEED", "42")
	t.Setenv("SEED_ON_START", "true")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 45*time.Second, cfg.TrainingTimeout)
	assert.Equal(t, int64(42), cfg.TrainingSeed)
	assert.True(t, cfg.SeedOnStart)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRequiresDatabaseURLForPostgres(t *testing.T) {
	t.Setenv("STORAGE", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestValidate(t *testing.T) {
	cases := map[string]Config{
		"bad port":      {Port: "http", Storage: StorageMemory},
		"port range":    {Port: "70000", Storage: StorageMemory},
		"bad storage":   {Port: "8080", Storage: "sqlite"},
		"bad level":     {Port: "8080", Storage: StorageMemory, LogLevel: "loud"},
		"neg timeout":   {Port: "8080", Storage: StorageMemory, TrainingTimeout: -time.Second},
		"missing dburl": {Port: "8080", Storage: StoragePostgres},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			cfg.SetDefaults()
			assert.Error(t, cfg.Validate())
		})
	}

	ok := Config{Storage: StorageMemory}
	ok.SetDefaults()
	assert.NoError(t, ok.Validate())
}
