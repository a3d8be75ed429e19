// Package config provides configuration management for the converter.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"schaledb/internal/logger"
)

// Configuration validation errors.
var (
	ErrInvalidTimeout     = errors.New("source.timeout_sec must be non-negative")
	ErrInvalidMaxBody     = errors.New("source.max_body_kb must be at least 1")
	ErrEmptyUserAgent     = errors.New("source.user_agent is required")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidReasonWidth = errors.New("report.max_reason_width must be at least 8")
)

// Environment variables that override file settings.
const (
	EnvLogLevel   = "SCHALEDB_LOG_LEVEL"
	EnvTimeoutSec = "SCHALEDB_TIMEOUT_SEC"
	EnvUserAgent  = "SCHALEDB_USER_AGENT"
	EnvMaxBodyKb  = "SCHALEDB_MAX_BODY_KB"
	EnvDBPath     = "SCHALEDB_DB_PATH"
	EnvOutputBase = "SCHALEDB_OUTPUT_BASE"
)

// DefaultPath is read when no config file is named and it exists.
const DefaultPath = "configs/converter.yaml"

// Config represents the complete converter configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Storage StorageConfig `yaml:"storage"`
	Report  ReportConfig  `yaml:"report"`
}

// SourceConfig controls how the source document is fetched.
type SourceConfig struct {
	Headers    map[string]string `yaml:"headers"`
	UserAgent  string            `yaml:"user_agent"`
	TimeoutSec int               `yaml:"timeout_sec"`
	MaxBodyKb  int               `yaml:"max_body_kb"`
}

// OutputConfig defines output behavior.
type OutputConfig struct {
	// BasePath prefixes relative output paths when set.
	BasePath string `yaml:"base_path"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig enables the SQLite export when DBPath is set.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// ReportConfig controls the skipped-entry report.
type ReportConfig struct {
	Enabled        bool `yaml:"enabled"`
	MaxReasonWidth int  `yaml:"max_reason_width"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			UserAgent:  "schaledb-converter/1.0",
			TimeoutSec: 0,
			MaxBodyKb:  64 * 1024,
		},
		Logging: LoggingConfig{Level: "info"},
		Report:  ReportConfig{MaxReasonWidth: 60},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load resolves the effective configuration: defaults, then the YAML file at
// path (or DefaultPath if path is empty and the file exists), then .env and
// process environment overrides.
func Load(path string) (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}

	cfg := Default()

	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := lookupEnv(EnvLogLevel); ok {
		c.Logging.Level = v
	}

	if v, ok := lookupEnv(EnvUserAgent); ok {
		c.Source.UserAgent = v
	}

	if v, ok := lookupEnv(EnvDBPath); ok {
		c.Storage.DBPath = v
	}

	if v, ok := lookupEnv(EnvOutputBase); ok {
		c.Output.BasePath = v
	}

	if err := envInt(EnvTimeoutSec, &c.Source.TimeoutSec); err != nil {
		return err
	}

	return envInt(EnvMaxBodyKb, &c.Source.MaxBodyKb)
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Source.TimeoutSec < 0 {
		return ErrInvalidTimeout
	}

	if c.Source.MaxBodyKb < 1 {
		return ErrInvalidMaxBody
	}

	if strings.TrimSpace(c.Source.UserAgent) == "" {
		return ErrEmptyUserAgent
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
	}

	if c.Report.MaxReasonWidth < 8 {
		return ErrInvalidReasonWidth
	}

	return nil
}

// GetTimeout returns the HTTP timeout. Zero means no timeout.
func (c *Config) GetTimeout() time.Duration {
	return time.Duration(c.Source.TimeoutSec) * time.Second
}

// GetMaxBodyBytes returns the response size limit in bytes.
func (c *Config) GetMaxBodyBytes() int64 {
	return int64(c.Source.MaxBodyKb) * 1024
}

// GetOutputPath resolves output against Output.BasePath when output is relative.
func (c *Config) GetOutputPath(output string) string {
	if c.Output.BasePath == "" || output == "" || filepath.IsAbs(output) {
		return output
	}

	return filepath.Join(c.Output.BasePath, output)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Timeout: %s, MaxBodyKb: %d, LogLevel: %s, DB: %q}",
		c.GetTimeout(),
		c.Source.MaxBodyKb,
		c.Logging.Level,
		c.Storage.DBPath,
	)
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}

	return strings.TrimSpace(v), true
}

func envInt(key string, dst *int) error {
	v, ok := lookupEnv(key)
	if !ok {
		return nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	*dst = n

	return nil
}
