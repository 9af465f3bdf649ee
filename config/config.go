// Package config loads processing configuration from an optional YAML
// file and TABULAR_* environment variables. Environment variables take
// precedence over the file, which takes precedence over the defaults.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete processing configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	CSV     CSVConfig     `yaml:"csv" envconfig:"CSV"`
	Quality QualityConfig `yaml:"quality" envconfig:"QUALITY"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output string `yaml:"output" envconfig:"OUTPUT"`
}

// CSVConfig contains defaults applied to CSV loading.
type CSVConfig struct {
	Separator string   `yaml:"separator" envconfig:"SEPARATOR" validate:"max=1"`
	Encoding  string   `yaml:"encoding" envconfig:"ENCODING"`
	NAValues  []string `yaml:"na_values" envconfig:"NA_VALUES"`
}

// QualityConfig contains thresholds for the quality checks.
type QualityConfig struct {
	CompletenessThreshold float64 `yaml:"completeness_threshold" envconfig:"COMPLETENESS_THRESHOLD" validate:"gte=0,lte=100"`
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "console",
		},
		CSV: CSVConfig{
			Separator: ",",
		},
		Quality: QualityConfig{
			CompletenessThreshold: 95,
		},
	}
}

// Load loads configuration starting from the defaults, overlaid by the
// given YAML file (if path is non-empty and the file exists) and then by
// environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := loadFromFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	// Env vars set in the environment overwrite file values; unset vars
	// leave them alone.
	if err := envconfig.Process("TABULAR", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays values from a YAML file onto cfg. Keys absent
// from the file keep their current values.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// SeparatorRune returns the configured CSV separator as a rune, or 0 when
// unset so loaders fall back to their extension-based default.
func (c *Config) SeparatorRune() rune {
	for _, r := range c.CSV.Separator {
		return r
	}
	return 0
}
