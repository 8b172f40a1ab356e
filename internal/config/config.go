package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"goclean/domain/cleaning"
	"goclean/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Runs     RunConfig
	Cleaning CleaningConfig
}

// DatabaseConfig holds database connection settings. An empty URL disables
// run history.
type DatabaseConfig struct {
	URL    string
	Driver string
}

// Enabled reports whether run history should be persisted
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	GinMode        string
	MaxUploadBytes int64
}

// RunConfig bounds pipeline execution
type RunConfig struct {
	MaxConcurrent int
	Timeout       time.Duration
}

// CleaningConfig holds the default options applied when a request omits them
type CleaningConfig struct {
	Defaults cleaning.Options
}

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: *loadDatabaseConfig(),
		Server:   *loadServerConfig(),
		Runs:     *loadRunConfig(),
	}

	cleaningConfig, err := loadCleaningConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cleaning defaults")
	}
	config.Cleaning = *cleaningConfig

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// DefaultCleaningOptions returns the cleaning defaults from the environment,
// falling back to cleaning.DefaultOptions when a variable is unset or bad
func DefaultCleaningOptions() cleaning.Options {
	c, err := loadCleaningConfig()
	if err != nil {
		return cleaning.DefaultOptions()
	}
	return c.Defaults
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:    getEnvOrDefault("DATABASE_URL", ""),
		Driver: getEnvOrDefault("DATABASE_DRIVER", DriverPostgres),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", 32<<20)),
	}
}

func loadRunConfig() *RunConfig {
	return &RunConfig{
		MaxConcurrent: getEnvIntOrDefault("MAX_CONCURRENT_RUNS", 4),
		Timeout:       getEnvDurationOrDefault("RUN_TIMEOUT", 2*time.Minute),
	}
}

func loadCleaningConfig() (*CleaningConfig, error) {
	defaults := cleaning.DefaultOptions()
	opts := cleaning.Options{
		CleanColumnNames: getEnvBoolOrDefault("CLEAN_COLUMN_NAMES", defaults.CleanColumnNames),
		ConvertNumeric:   getEnvBoolOrDefault("CLEAN_CONVERT_NUMERIC", defaults.ConvertNumeric),
		HandleMissing:    getEnvBoolOrDefault("CLEAN_HANDLE_MISSING", defaults.HandleMissing),
		MissingStrategy:  cleaning.MissingStrategy(getEnvOrDefault("CLEAN_MISSING_STRATEGY", string(defaults.MissingStrategy))),
		RemoveOutliers:   getEnvBoolOrDefault("CLEAN_REMOVE_OUTLIERS", defaults.RemoveOutliers),
		OutlierFactor:    getEnvFloatOrDefault("CLEAN_OUTLIER_FACTOR", defaults.OutlierFactor),
		OutlierMethod:    cleaning.OutlierMethod(getEnvOrDefault("CLEAN_OUTLIER_METHOD", string(defaults.OutlierMethod))),
		OutlierAction:    cleaning.OutlierAction(getEnvOrDefault("CLEAN_OUTLIER_ACTION", string(defaults.OutlierAction))),
		RemoveDuplicates: getEnvBoolOrDefault("CLEAN_REMOVE_DUPLICATES", defaults.RemoveDuplicates),
	}

	// Set but empty means "no sentinels beyond the empty string"
	if raw, ok := os.LookupEnv("CLEAN_MISSING_SENTINELS"); ok {
		opts.MissingSentinels = splitList(raw)
	}

	if err := opts.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return &CleaningConfig{Defaults: opts.Normalized()}, nil
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.ConfigInvalid("DATABASE_DRIVER must be postgres or sqlite3")
	}
	if config.Runs.MaxConcurrent < 1 {
		return errors.ConfigInvalid("MAX_CONCURRENT_RUNS must be at least 1")
	}
	if config.Runs.Timeout <= 0 {
		return errors.ConfigInvalid("RUN_TIMEOUT must be positive")
	}
	if config.Server.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts)+1)
	out = append(out, "")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
