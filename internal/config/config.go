package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the CLI and the HTTP function.
type Config struct {
	// Workers bounds concurrent record counting (0 = number of CPUs).
	Workers int `yaml:"workers"`

	// UnfoldFactor is the expansion reported next to the base total.
	UnfoldFactor int `yaml:"unfold_factor"`

	// Request limits for the HTTP function. MaxRowLength applies to rows
	// after unfolding.
	MaxFactor       int   `yaml:"max_factor"`
	MaxRecords      int   `yaml:"max_records"`
	MaxRowLength    int   `yaml:"max_row_length"`
	MaxRequestBytes int64 `yaml:"max_request_bytes"`

	// MaxEnumerateUnknowns caps rows listed by the arrangements command.
	MaxEnumerateUnknowns int `yaml:"max_enumerate_unknowns"`

	LogLevel string `yaml:"log_level"`

	BigQuery BigQueryConfig `yaml:"bigquery"`
	Server   ServerConfig   `yaml:"server"`
}

// BigQueryConfig locates the table condition records are loaded from.
type BigQueryConfig struct {
	Project  string `yaml:"project"`
	Dataset  string `yaml:"dataset"`
	Table    string `yaml:"table"`
	Location string `yaml:"location"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

func DefaultConfig() *Config {
	return &Config{
		Workers:              0,
		UnfoldFactor:         5,
		MaxFactor:            10,
		MaxRecords:           5000,
		MaxRowLength:         2000,
		MaxRequestBytes:      1 << 20,
		MaxEnumerateUnknowns: 20,
		LogLevel:             "info",
		BigQuery: BigQueryConfig{
			Project:  "xword-x",
			Dataset:  "Springs",
			Table:    "condition_records",
			Location: "US",
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

// Load reads a yaml config from path on top of DefaultConfig. Environment
// overrides are applied afterwards.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as yaml to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if os.Getenv("LOCAL_ONLY") == "true" {
		c.Server.Host = "127.0.0.1"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.UnfoldFactor < 1 {
		errs = append(errs, fmt.Errorf("unfold_factor must be at least 1, got %d", c.UnfoldFactor))
	}
	if c.MaxFactor < c.UnfoldFactor {
		errs = append(errs, fmt.Errorf("max_factor (%d) must be at least unfold_factor (%d)", c.MaxFactor, c.UnfoldFactor))
	}
	if c.MaxRecords < 1 {
		errs = append(errs, fmt.Errorf("max_records must be at least 1, got %d", c.MaxRecords))
	}
	if c.MaxRowLength < 1 {
		errs = append(errs, fmt.Errorf("max_row_length must be at least 1, got %d", c.MaxRowLength))
	}
	if c.MaxRequestBytes < 1 {
		errs = append(errs, fmt.Errorf("max_request_bytes must be at least 1, got %d", c.MaxRequestBytes))
	}
	if c.MaxEnumerateUnknowns < 0 {
		errs = append(errs, fmt.Errorf("max_enumerate_unknowns must not be negative, got %d", c.MaxEnumerateUnknowns))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

// NewLogger builds a production zap logger at the configured level, or at
// debug level when verbose is set.
func (c *Config) NewLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
