// Package config loads run settings for sb-box-scores.
//
// Settings start from built-in defaults that reproduce the fixed behavior of the tool
// (footballdb.com, container "leftcol", games counted down from 58 into the working
// directory). A YAML file and SBSCORES_* environment variables may override them, and the
// CLI applies explicitly-set flags last.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pfrederiksen/sb-box-scores/internal/logger"
	"github.com/pfrederiksen/sb-box-scores/internal/scraper"
	"github.com/pfrederiksen/sb-box-scores/internal/storage"
	"gopkg.in/yaml.v3"
)

// Output formats for the run summary
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Configuration validation errors.
var (
	ErrMissingURL         = errors.New("url is required")
	ErrMissingUserAgent   = errors.New("user_agent is required")
	ErrMissingContainerID = errors.New("container_id is required")
	ErrInvalidStartIndex  = errors.New("start_index must be at least 1")
	ErrMissingOutputDir   = errors.New("output_dir is required")
	ErrNegativeTimeout    = errors.New("timeout must not be negative")
	ErrInvalidLogLevel    = errors.New("log_level must be one of: debug, info, warn, error")
	ErrInvalidFormat      = errors.New("format must be 'text' or 'json'")
)

// Config holds every setting of a run
type Config struct {
	URL         string        `yaml:"url" env:"SBSCORES_URL"`
	UserAgent   string        `yaml:"user_agent" env:"SBSCORES_USER_AGENT"`
	ContainerID string        `yaml:"container_id" env:"SBSCORES_CONTAINER_ID"`
	StartIndex  int           `yaml:"start_index" env:"SBSCORES_START_INDEX"`
	OutputDir   string        `yaml:"output_dir" env:"SBSCORES_OUTPUT_DIR"`
	Timeout     time.Duration `yaml:"timeout" env:"SBSCORES_TIMEOUT"` // zero waits forever
	LogLevel    string        `yaml:"log_level" env:"SBSCORES_LOG_LEVEL"`
	Format      string        `yaml:"format" env:"SBSCORES_FORMAT"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		URL:         scraper.SuperBowlsURL,
		UserAgent:   scraper.UserAgent,
		ContainerID: scraper.ContainerID,
		StartIndex:  storage.LatestGame,
		OutputDir:   ".",
		LogLevel:    "warn",
		Format:      FormatText,
	}
}

// Load returns the defaults overridden by the YAML file at path (when path is not empty)
// and then by the environment. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeFile overlays the keys present in a YAML file
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// ApplyEnv overlays SBSCORES_* environment variables that are set
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return ErrMissingURL
	}
	if c.UserAgent == "" {
		return ErrMissingUserAgent
	}
	if c.ContainerID == "" {
		return ErrMissingContainerID
	}
	if c.StartIndex < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidStartIndex, c.StartIndex)
	}
	if c.OutputDir == "" {
		return ErrMissingOutputDir
	}
	if c.Timeout < 0 {
		return ErrNegativeTimeout
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.LogLevel)
	}

	switch strings.ToLower(c.Format) {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Format)
	}

	return nil
}
