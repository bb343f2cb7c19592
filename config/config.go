// Package config loads the process-level bootstrap configuration: log
// level, management HTTP bind address and auth token, metrics bind
// address. It does not know anything about topology (vhosts, exchanges,
// publications...) — that is a separate concern parsed via
// rascal.LoadConfig from YAML. Priority: environment variables > .env
// file > default values, following the teacher's config package.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process bootstrap settings.
type Config struct {
	// Logging
	LogLevel string

	// Management HTTP introspection server (internal/management)
	ManagementEnabled   bool
	ManagementAddr      string
	ManagementAuthToken string

	// Metrics server (internal/metrics)
	MetricsEnabled bool
	MetricsAddr    string
}

// LoadConfig loads configuration from .env file, environment variables,
// or defaults.
func LoadConfig() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	return &Config{
		LogLevel: getEnv("RASCAL_LOG_LEVEL", "info"),

		ManagementEnabled:   getEnvAsBool("RASCAL_MANAGEMENT_ENABLED", false),
		ManagementAddr:      getEnv("RASCAL_MANAGEMENT_ADDR", ":15673"),
		ManagementAuthToken: getEnv("RASCAL_MANAGEMENT_AUTH_TOKEN", ""),

		MetricsEnabled: getEnvAsBool("RASCAL_METRICS_ENABLED", false),
		MetricsAddr:    getEnv("RASCAL_METRICS_ADDR", ":9091"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s: %s, using default: %t\n", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
