// Package config provides configuration loading and management for lumendist.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Input parameters
	Input struct {
		// ForegroundThreshold is the normalized intensity above which a
		// mask pixel counts as foreground
		ForegroundThreshold float64 `yaml:"foregroundThreshold"`

		// SnapToMask moves marker points onto the nearest foreground voxel
		// before measuring
		SnapToMask bool `yaml:"snapToMask"`
	} `yaml:"input"`

	// Output parameters
	Output struct {
		// TableFile is the CSV file for the distance table
		TableFile string `yaml:"tableFile"`

		// PlotFile is the scatter plot image; empty disables it
		PlotFile string `yaml:"plotFile"`

		// ReportFile is the HTML heatmap report; empty disables it
		ReportFile string `yaml:"reportFile"`

		// HistogramFile is the distance map histogram image; empty disables it
		HistogramFile string `yaml:"histogramFile"`

		// MapDir receives distance map slices for single-point and label markers
		MapDir string `yaml:"mapDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`

	// Plot parameters
	Plot struct {
		// Width and Height are in inches
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"plot"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Input.ForegroundThreshold = 0.5
	cfg.Input.SnapToMask = false

	cfg.Output.TableFile = "distances.csv"
	cfg.Output.PlotFile = "distances.png"
	cfg.Output.ReportFile = ""
	cfg.Output.HistogramFile = "distance_histogram.png"
	cfg.Output.MapDir = "distance_map"
	cfg.Output.Verbose = false

	cfg.Plot.Width = 8
	cfg.Plot.Height = 6

	return cfg
}

// Validate checks values that would make a run fail later
func (c *Config) Validate() error {
	if c.Input.ForegroundThreshold < 0 || c.Input.ForegroundThreshold >= 1 {
		return fmt.Errorf("foregroundThreshold must be in [0, 1), got %g", c.Input.ForegroundThreshold)
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return fmt.Errorf("plot size must be positive, got %gx%g", c.Plot.Width, c.Plot.Height)
	}
	return nil
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
		return nil, fmt.Errorf("invalid config file: %w", err)
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
