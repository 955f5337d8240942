// Package config loads server settings from the environment.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting of the room server.
type Config struct {
	Addr       string `env:"COUP_ADDR" envDefault:":8080"`
	LogFile    string `env:"COUP_LOG_FILE" envDefault:"app.log"`
	LogLevel   string `env:"COUP_LOG_LEVEL" envDefault:"debug"`
	LogConsole bool   `env:"COUP_LOG_CONSOLE" envDefault:"true"`
	// DBPath selects the SQLite room store; empty keeps rooms in memory.
	DBPath         string        `env:"COUP_DB_PATH"`
	AllowedOrigins []string      `env:"COUP_ALLOWED_ORIGINS" envSeparator:","`
	OTelEndpoint   string        `env:"COUP_OTEL_ENDPOINT"`
	SaveTimeout    time.Duration `env:"COUP_SAVE_TIMEOUT" envDefault:"5s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment and then applies command-line overrides from
// args. Only -addr is accepted on the command line.
func Load(args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs := flag.NewFlagSet("coup", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "server listen address, e.g. :8080")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.SaveTimeout <= 0 {
		return Config{}, fmt.Errorf("COUP_SAVE_TIMEOUT must be positive, got %s", cfg.SaveTimeout)
	}
	return cfg, nil
}
