// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/elshize/eval-metrics/internal/metric"
)

// DefaultMetrics is the metric set evaluated when none are requested
// explicitly.
var DefaultMetrics = []string{
	"P@10", "P@20", "P@30", "P@50", "P@100", "P@200", "P@500", "P@1000",
	"RBP:95",
}

// Config holds all application configuration.
type Config struct {
	// Metrics to evaluate, by name, e.g. "P@10" or "RBP:95".
	Metrics []string `envconfig:"IRM_METRICS" yaml:"metrics"`

	// Workers is the number of queries evaluated concurrently.
	// 0 means one worker per CPU.
	Workers int `envconfig:"IRM_WORKERS" yaml:"workers"`

	// Output configuration
	Output   string `envconfig:"IRM_OUTPUT" yaml:"output"`
	PerQuery bool   `envconfig:"IRM_PER_QUERY" yaml:"per_query"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"IRM_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"IRM_LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from environment variables and optional config file.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Set defaults first
	setDefaults(cfg)

	// Load from YAML file if provided (overrides defaults)
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Metrics = append([]string(nil), DefaultMetrics...)
	cfg.Workers = 0
	cfg.Output = "text"
	cfg.PerQuery = false

	cfg.Log = LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if len(c.Metrics) == 0 {
		errs = append(errs, "at least one metric must be configured")
	}
	if _, err := metric.ParseAll(c.Metrics); err != nil {
		errs = append(errs, err.Error())
	}

	if c.Workers < 0 {
		errs = append(errs, "workers must not be negative")
	}

	validOutputs := map[string]bool{"text": true, "csv": true, "json": true}
	if !validOutputs[c.Output] {
		errs = append(errs, fmt.Sprintf("invalid output format: %s (must be text, csv, or json)", c.Output))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// EffectiveWorkers returns the worker count with the CPU-based default
// applied.
func (c *Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
