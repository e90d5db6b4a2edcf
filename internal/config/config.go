package config

import (
	"fmt"
	"os"
	"strconv"

	"cohortlens/domain/stats"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Analysis AnalysisConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds data source settings. When File is empty the service
// falls back to the deterministic sample-data generator.
type DataConfig struct {
	File         string
	SampleDays   int
	SampleCohort int // participants per cohort
	SampleSeed   int64
}

// AnalysisConfig holds the statistical threshold overrides. Values are
// explicit configuration, never mutable package state, so per-study tuning
// stays auditable.
type AnalysisConfig struct {
	Alpha         float64
	MildSigma     float64
	ModerateSigma float64
	SevereSigma   float64
}

// Thresholds materializes the configured analysis thresholds on top of the
// published defaults.
func (c AnalysisConfig) Thresholds() stats.Thresholds {
	t := stats.DefaultThresholds()
	t.Alpha = c.Alpha
	t.Anomaly = stats.AnomalyBands{
		Mild:     c.MildSigma,
		Moderate: c.ModerateSigma,
		Severe:   c.SevereSigma,
	}
	return t
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Data: DataConfig{
			File:         getEnvOrDefault("DATA_FILE", ""),
			SampleDays:   getEnvIntOrDefault("SAMPLE_DAYS", 120),
			SampleCohort: getEnvIntOrDefault("SAMPLE_COHORT_SIZE", 5),
			SampleSeed:   int64(getEnvIntOrDefault("SAMPLE_SEED", 42)),
		},
		Analysis: AnalysisConfig{
			Alpha:         getEnvFloatOrDefault("ALPHA", 0.05),
			MildSigma:     getEnvFloatOrDefault("ANOMALY_MILD_SIGMA", 1.5),
			ModerateSigma: getEnvFloatOrDefault("ANOMALY_MODERATE_SIGMA", 2.0),
			SevereSigma:   getEnvFloatOrDefault("ANOMALY_SEVERE_SIGMA", 3.0),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if cfg.Analysis.Alpha <= 0 || cfg.Analysis.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0, 1), got %v", cfg.Analysis.Alpha)
	}
	a := cfg.Analysis
	if a.MildSigma <= 0 || a.MildSigma > a.ModerateSigma || a.ModerateSigma > a.SevereSigma {
		return fmt.Errorf("anomaly thresholds must be ascending and positive, got %v/%v/%v",
			a.MildSigma, a.ModerateSigma, a.SevereSigma)
	}
	if cfg.Data.File == "" && (cfg.Data.SampleDays <= 0 || cfg.Data.SampleCohort <= 0) {
		return fmt.Errorf("sample data dimensions must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
