// Package config provides configuration loading and management for the image
// RANSAC server. It handles loading configuration from YAML files and provides
// default values for every tool argument a client may omit.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate for out-of-range values.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the application configuration loaded from YAML
type Config struct {
	// RANSAC estimator defaults
	RANSAC struct {
		// ResidualThreshold is the inlier distance for line fits, in pixels
		ResidualThreshold float64 `yaml:"residualThreshold"`

		// CircleResidualThreshold is the inlier distance for circle fits, in pixels
		CircleResidualThreshold float64 `yaml:"circleResidualThreshold"`

		// MaxTrials bounds the number of sampling iterations
		MaxTrials int `yaml:"maxTrials"`

		// StopProbability enables adaptive stopping when in (0, 1)
		StopProbability float64 `yaml:"stopProbability"`

		// Workers is the number of goroutines evaluating trials
		Workers int `yaml:"workers"`

		// Seed fixes the sampler seed; 0 seeds from the clock
		Seed int64 `yaml:"seed"`

		// Refit re-estimates the best model from all of its inliers
		Refit bool `yaml:"refit"`
	} `yaml:"ransac"`

	// Edge detection parameters used to turn images into point sets
	Edges struct {
		// ThresholdLow is the hysteresis low threshold (0-255)
		ThresholdLow int `yaml:"thresholdLow"`

		// ThresholdHigh is the hysteresis high threshold (0-255)
		ThresholdHigh int `yaml:"thresholdHigh"`

		// Sigma is the Gaussian smoothing applied before gradients; 0 disables it
		Sigma float64 `yaml:"sigma"`
	} `yaml:"edges"`

	// Detection limits for multi-model extraction
	Detection struct {
		// MaxLines caps the number of lines image_fit_lines extracts
		MaxLines int `yaml:"maxLines"`

		// MinInliers is the smallest consensus set reported as a detection
		MinInliers int `yaml:"minInliers"`

		// AlignmentTolerance is the pixel distance image_check_alignment allows
		AlignmentTolerance float64 `yaml:"alignmentTolerance"`
	} `yaml:"detection"`

	// Logging parameters
	Log struct {
		// Level is one of debug, info, warn, error
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.RANSAC.ResidualThreshold = 2.0
	cfg.RANSAC.CircleResidualThreshold = 2.0
	cfg.RANSAC.MaxTrials = 1000
	cfg.RANSAC.StopProbability = 1.0
	cfg.RANSAC.Workers = runtime.NumCPU()
	cfg.RANSAC.Seed = 0
	cfg.RANSAC.Refit = true

	cfg.Edges.ThresholdLow = 50
	cfg.Edges.ThresholdHigh = 150
	cfg.Edges.Sigma = 1.0

	cfg.Detection.MaxLines = 4
	cfg.Detection.MinInliers = 10
	cfg.Detection.AlignmentTolerance = 5.0

	cfg.Log.Level = "info"

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.RANSAC.ResidualThreshold < 0:
		return fmt.Errorf("%w: ransac.residualThreshold must be >= 0", ErrInvalidConfig)
	case c.RANSAC.CircleResidualThreshold < 0:
		return fmt.Errorf("%w: ransac.circleResidualThreshold must be >= 0", ErrInvalidConfig)
	case c.RANSAC.MaxTrials <= 0:
		return fmt.Errorf("%w: ransac.maxTrials must be > 0", ErrInvalidConfig)
	case c.RANSAC.StopProbability < 0 || c.RANSAC.StopProbability > 1:
		return fmt.Errorf("%w: ransac.stopProbability must be in [0, 1]", ErrInvalidConfig)
	case c.Edges.ThresholdLow < 0 || c.Edges.ThresholdHigh > 255 || c.Edges.ThresholdLow > c.Edges.ThresholdHigh:
		return fmt.Errorf("%w: edges thresholds must satisfy 0 <= low <= high <= 255", ErrInvalidConfig)
	case c.Edges.Sigma < 0:
		return fmt.Errorf("%w: edges.sigma must be >= 0", ErrInvalidConfig)
	case c.Detection.MaxLines < 0 || c.Detection.MinInliers < 0:
		return fmt.Errorf("%w: detection limits must be >= 0", ErrInvalidConfig)
	case c.Detection.AlignmentTolerance < 0:
		return fmt.Errorf("%w: detection.alignmentTolerance must be >= 0", ErrInvalidConfig)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog level. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, name)
}
