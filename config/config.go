// Package config loads tool settings from an optional YAML file with
// RNG_-prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "RNG_"

// Config is the top-level configuration.
type Config struct {
	Range         RangeConfig   `yaml:"range" envPrefix:"RANGE_"`
	SelfTest      RangeConfig   `yaml:"selftest" envPrefix:"SELFTEST_"`
	RdrandRetries int           `yaml:"rdrand_retries" env:"RDRAND_RETRIES"`
	MaxRounds     int           `yaml:"max_rounds" env:"MAX_ROUNDS"`
	OutDir        string        `yaml:"out_dir" env:"OUT_DIR"`
	Logging       LoggingConfig `yaml:"logging" envPrefix:"LOG_"`
}

// RangeConfig is an inclusive [Lo, Hi] pair.
type RangeConfig struct {
	Lo int64 `yaml:"lo" env:"LO"`
	Hi int64 `yaml:"hi" env:"HI"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"FORMAT"` // text or json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Range:         RangeConfig{Lo: 1, Hi: 100},
		SelfTest:      RangeConfig{Lo: 1, Hi: 9},
		RdrandRetries: 10,
		MaxRounds:     1000,
		OutDir:        "data",
		Logging:       LoggingConfig{Level: "warn", Format: "text"},
	}
}

// Load returns Default overlaid with the YAML file at path (skipped when path
// is empty) and then with environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and limits.
func (c *Config) Validate() error {
	var errs []error
	if c.Range.Lo > c.Range.Hi {
		errs = append(errs, fmt.Errorf("range: min %d > max %d", c.Range.Lo, c.Range.Hi))
	}
	if c.SelfTest.Lo > c.SelfTest.Hi {
		errs = append(errs, fmt.Errorf("selftest: min %d > max %d", c.SelfTest.Lo, c.SelfTest.Hi))
	}
	if c.RdrandRetries <= 0 {
		errs = append(errs, errors.New("rdrand_retries must be > 0"))
	}
	if c.MaxRounds <= 0 {
		errs = append(errs, errors.New("max_rounds must be > 0"))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q (allowed: text, json)", c.Logging.Format))
	}
	return errors.Join(errs...)
}
