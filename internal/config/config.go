package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Rollup   RollupConfig   `yaml:"rollup"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Report   ReportConfig   `yaml:"report"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RollupConfig configures the refresh engine.
type RollupConfig struct {
	// Workers bounds the parallel submission builds; 0 or 1 builds
	// sequentially.
	Workers int `yaml:"workers"`
}

// ScheduleConfig configures the watch daemon interval.
type ScheduleConfig struct {
	RefreshInterval string `yaml:"refresh_interval"`
}

// ParseRefreshInterval returns the refresh interval as time.Duration.
func (s ScheduleConfig) ParseRefreshInterval() time.Duration {
	d, err := time.ParseDuration(s.RefreshInterval)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// ReportConfig holds report command defaults.
type ReportConfig struct {
	Limit     int    `yaml:"limit"`
	Subreddit string `yaml:"subreddit"`
	Query     string `yaml:"query"`
}

// LogConfig configures logrus output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./postroll.db"},
		Rollup:   RollupConfig{Workers: 4},
		Schedule: ScheduleConfig{RefreshInterval: "15m"},
		Report:   ReportConfig{Limit: 50},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POSTROLL_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("POSTROLL_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Rollup.Workers = n
		}
	}
	if v := os.Getenv("POSTROLL_REFRESH_INTERVAL"); v != "" {
		cfg.Schedule.RefreshInterval = v
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Database),
		validation.Field(&c.Rollup),
		validation.Field(&c.Log),
	)
}

func (d DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Path, validation.Required),
	)
}

func (r RollupConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Workers, validation.Min(0)),
	)
}

func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("text", "json")),
	)
}
