package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config is read from the process environment. Keys are the upper-cased
// koanf tags, e.g. DATABASE_URL or TRAINING_TIMEOUT.
type Config struct {
	AppEnv          string        `koanf:"app_env"`
	Port            string        `koanf:"port"`
	Storage         string        `koanf:"storage"`
	DatabaseURL     string        `koanf:"database_url"`
	SeedPath        string        `koanf:"seed_path"`
	SeedOnStart     bool          `koanf:"seed_on_start"`
	LogLevel        string        `koanf:"log_level"`
	TrainingTimeout time.Duration `koanf:"training_timeout"`
	TrainingSeed    int64         `koanf:"training_seed"`
	MetricsEnabled  bool          `koanf:"metrics_enabled"`
}

var defaults = map[string]any{
	"app_env":          "production",
	"port":             "8080",
	"storage":          StoragePostgres,
	"seed_path":        "data/seeds/seed-data.json",
	"seed_on_start":    false,
	"log_level":        "info",
	"training_timeout": "2m",
	"training_seed":    0,
	"metrics_enabled":  true,
}

// Load reads defaults, then environment overrides, and validates the result.
// Only the variables named by Config tags are consulted.
func Load() (*Config, error) {
	k := koanf.New(".")
	for key, v := range defaults {
		if err := k.Set(key, v); err != nil {
			return nil, fmt.Errorf("load config: default %s: %w", key, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := defaults[key]; ok || key == "database_url" {
			return key
		}
		return ""
	}), nil); err != nil {
		return nil, fmt.Errorf("load config: env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: decode: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// SetDefaults fills empty fields. Load already applies defaults; this covers
// configs built by hand.
func (c *Config) SetDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.Storage == "" {
		c.Storage = StoragePostgres
	}
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	if c.SeedPath == "" {
		c.SeedPath = "data/seeds/seed-data.json"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.TrainingTimeout == 0 {
		c.TrainingTimeout = 2 * time.Minute
	}
}

func (c *Config) Validate() error {
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	switch c.Storage {
	case StoragePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required when STORAGE=postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("invalid STORAGE %q: want %s or %s", c.Storage, StoragePostgres, StorageMemory)
	}
	if c.TrainingTimeout < 0 {
		return fmt.Errorf("invalid TRAINING_TIMEOUT %s: must be positive", c.TrainingTimeout)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }
