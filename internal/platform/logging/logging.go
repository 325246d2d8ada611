package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger tagged with the given component. APP_ENV=dev switches
// to human readable console output; otherwise records are JSON on stdout.
func New(component string) zerolog.Logger {
	return NewWithWriter(component, os.Stdout)
}

func NewWithWriter(component string, w io.Writer) zerolog.Logger {
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger()
}

// SetLevel sets the global minimum level. An empty string selects info.
func SetLevel(level string) error {
	if strings.TrimSpace(level) == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("set log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
