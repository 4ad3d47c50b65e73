// Package config loads the settings of the trainer: from defaults, then an optional YAML file,
// then the environment (a .env file in the working directory is honored).
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/crillab/booltrainer/circuit"
	"github.com/crillab/booltrainer/truthtable"
)

// Environment variables overriding the loaded settings.
const (
	EnvAddr           = "BOOLTRAINER_ADDR"
	EnvMaxVariables   = "BOOLTRAINER_MAX_VARIABLES"
	EnvLogLevel       = "BOOLTRAINER_LOG_LEVEL"
	EnvLogFormat      = "BOOLTRAINER_LOG_FORMAT"
	EnvRequestTimeout = "BOOLTRAINER_REQUEST_TIMEOUT"
)

// Config holds the settings of the trainer.
type Config struct {
	Server struct {
		Addr           string        `yaml:"addr"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		Mode           string        `yaml:"mode"` // gin mode: debug, release or test
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`  // debug, info, warn or error
		Format string `yaml:"format"` // text or json
	} `yaml:"log"`
	Table   truthtable.Config `yaml:"table"`
	Circuit struct {
		Dangling string `yaml:"dangling"` // fatal or float
	} `yaml:"circuit"`
}

// Default returns the default settings.
func Default() *Config {
	var cfg Config
	cfg.Server.Addr = ":8080"
	cfg.Server.RequestTimeout = 10 * time.Second
	cfg.Server.Mode = "release"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Table = truthtable.DefaultConfig()
	cfg.Circuit.Dangling = circuit.DanglingFatal.String()
	return &cfg
}

// Load returns the settings read from the YAML file at path, over the defaults,
// then overridden by the environment. An empty path only uses the defaults and the environment.
func Load(path string) (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("could not parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if addr := os.Getenv(EnvAddr); addr != "" {
		c.Server.Addr = addr
	}
	if maxVars := os.Getenv(EnvMaxVariables); maxVars != "" {
		n, err := strconv.Atoi(maxVars)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxVariables, err)
		}
		c.Table.MaxVariables = n
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		c.Log.Format = format
	}
	if timeout := os.Getenv(EnvRequestTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRequestTimeout, err)
		}
		c.Server.RequestTimeout = d
	}
	return nil
}

// Validate checks the consistency of the settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is empty"))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.request_timeout must be positive, got %v", c.Server.RequestTimeout))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Table.MaxVariables < 1 || c.Table.MaxVariables > 24 {
		errs = append(errs, fmt.Errorf("table.max_variables must be between 1 and 24, got %d", c.Table.MaxVariables))
	}
	if _, err := circuit.ParseDanglingPolicy(c.Circuit.Dangling); err != nil {
		errs = append(errs, fmt.Errorf("circuit.dangling: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Logger returns a logger writing to w with the configured level and format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// DanglingPolicy returns the configured policy for unwired circuit slots.
func (c *Config) DanglingPolicy() circuit.DanglingPolicy {
	p, _ := circuit.ParseDanglingPolicy(c.Circuit.Dangling)
	return p
}
