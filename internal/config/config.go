package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration validation constants
const (
	MinBatchSize    = 1   // Minimum records buffered before a flush
	MinAPITimeout   = 1   // Minimum API timeout in seconds
	MaxAPITimeout   = 300 // Maximum API timeout in seconds (5 minutes)
	MinMetricWindow = 1   // Minimum metric lookback window in minutes

	// Default values
	DefaultOutputPath   = "azure-inventory.xlsx"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultAPITimeout   = 30 // API timeout in seconds
	DefaultBatchSize    = 50 // Records buffered per sheet before a flush
	DefaultMetricWindow = 60 // Metric lookback window in minutes
)

// Config represents the application configuration
type Config struct {
	OutputPath          string   `yaml:"output_path"`
	LogLevel            string   `yaml:"log_level"`
	LogFormat           string   `yaml:"log_format"`  // "text" or "json"
	APITimeout          int      `yaml:"api_timeout"` // Azure API timeout in seconds
	BatchSize           int      `yaml:"batch_size"`  // records buffered per sheet before a flush
	MetricWindowMinutes int      `yaml:"metric_window_minutes"`
	Subscriptions       []string `yaml:"subscriptions"` // subscription ID allow-list; empty means all visible
}

// Default returns a configuration populated with default values only.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads configuration from a YAML file and applies environment variable
// overrides. A missing file is not an error: the tool runs entirely on
// defaults when no config file is present.
func Load(path string) (*Config, error) {
	var cfg Config

	// #nosec G304 -- Config file path is provided by the operator via CLI flag, not user input
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// run on defaults
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Apply defaults
	applyDefaults(&cfg)

	// Override with environment variables
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment variable error: %w", err)
	}

	// Validate
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for configuration
func applyDefaults(cfg *Config) {
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.APITimeout == 0 {
		cfg.APITimeout = DefaultAPITimeout
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MetricWindowMinutes == 0 {
		cfg.MetricWindowMinutes = DefaultMetricWindow
	}
}

// applyEnvOverrides applies environment variable overrides to configuration
func applyEnvOverrides(cfg *Config) error {
	// Override output path
	if val := os.Getenv("AZURE_INVENTORY_OUTPUT"); val != "" {
		cfg.OutputPath = val
	}

	// Override log level
	if val := os.Getenv("AZURE_INVENTORY_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}

	// Override log format
	if val := os.Getenv("AZURE_INVENTORY_LOG_FORMAT"); val != "" {
		cfg.LogFormat = val
	}

	// Override API timeout
	if val := os.Getenv("AZURE_INVENTORY_API_TIMEOUT"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid AZURE_INVENTORY_API_TIMEOUT: must be an integer, got %q", val)
		}
		cfg.APITimeout = i
	}

	// Override batch size
	if val := os.Getenv("AZURE_INVENTORY_BATCH_SIZE"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid AZURE_INVENTORY_BATCH_SIZE: must be an integer, got %q", val)
		}
		cfg.BatchSize = i
	}

	// Override metric lookback window
	if val := os.Getenv("AZURE_INVENTORY_METRIC_WINDOW"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid AZURE_INVENTORY_METRIC_WINDOW: must be an integer, got %q", val)
		}
		cfg.MetricWindowMinutes = i
	}

	// Override subscription allow-list (comma-separated subscription IDs)
	// Example: AZURE_INVENTORY_SUBSCRIPTIONS="sub-1,sub-2"
	if val := os.Getenv("AZURE_INVENTORY_SUBSCRIPTIONS"); val != "" {
		var subs []string
		for _, id := range strings.Split(val, ",") {
			if id = strings.TrimSpace(id); id != "" {
				subs = append(subs, id)
			}
		}
		if len(subs) > 0 {
			cfg.Subscriptions = subs
		}
	}

	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.OutputPath == "" {
		return fmt.Errorf("output_path must not be empty")
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	if cfg.BatchSize < MinBatchSize {
		return fmt.Errorf("batch_size must be at least %d, got %d", MinBatchSize, cfg.BatchSize)
	}

	// Validate API timeout
	if cfg.APITimeout < MinAPITimeout {
		return fmt.Errorf("api_timeout must be positive, got %d", cfg.APITimeout)
	}
	if cfg.APITimeout > MaxAPITimeout {
		return fmt.Errorf("api_timeout should not exceed %d seconds, got %d", MaxAPITimeout, cfg.APITimeout)
	}

	if cfg.MetricWindowMinutes < MinMetricWindow {
		return fmt.Errorf("metric_window_minutes must be at least %d, got %d", MinMetricWindow, cfg.MetricWindowMinutes)
	}

	for i, id := range cfg.Subscriptions {
		if id == "" {
			return fmt.Errorf("subscription allow-list entry at index %d is empty", i)
		}
	}

	return nil
}
