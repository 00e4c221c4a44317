package app

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/raysh454/nbdata/internal/exporter"
	"github.com/raysh454/nbdata/internal/logging"
	"github.com/raysh454/nbdata/internal/webclient"
)

// EnvPrefix prefixes every environment variable read by LoadConfig, e.g.
// NBDATA_EXPORT_OUTPUT_DIR.
const EnvPrefix = "NBDATA"

// Config contains the runtime configuration shared by the command and the
// packages it wires together.
type Config struct {
	WebClient webclient.Config `envconfig:"WEBCLIENT"`
	Exporter  exporter.Config  `envconfig:"EXPORT"`

	// LogLevel is the lowest level the command prints. Logs share stdout
	// with the response body, so only warnings and errors show by default.
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
}

// DefaultLogLevel is the LogLevel used when NBDATA_LOG_LEVEL is unset.
const DefaultLogLevel = "warn"

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		WebClient: webclient.DefaultConfig(),
		Exporter:  exporter.DefaultConfig(),
		LogLevel:  DefaultLogLevel,
	}
}

// LoadConfig reads the configuration from the environment, falling back to
// the defaults for anything unset.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return &cfg, nil
}

// Level returns the parsed LogLevel, falling back to warn when it is invalid.
func (c *Config) Level() logging.Level {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return logging.LevelWarn
	}
	return level
}
