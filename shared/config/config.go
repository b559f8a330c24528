// Package config loads gateway runtime configuration from the
// environment, following the teacher's getEnv/getEnvInt pattern in
// gateway/main.go.
package config

import (
	"os"
	"strconv"

	"github.com/lucidwave/qsim-backend/shared/types"
)

// Load reads PORT, LOG_LEVEL, JWT_SECRET, API_KEY, ENVIRONMENT and
// METRICS_PORT from the environment, falling back to development
// defaults for anything unset. An empty API_KEY disables X-API-Key
// authentication, leaving JWT bearer tokens as the only credential.
func Load() *types.Config {
	return &types.Config{
		Port:        getEnvInt("PORT", 8080),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-key"),
		APIKey:      getEnv("API_KEY", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		ServiceName: "qsim-gateway",
		MetricsPort: getEnvInt("METRICS_PORT", 9090),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses the environment variable as an integer, falling
// back to defaultValue if it is unset or unparsable. The teacher's
// version of this helper (gateway/main.go) reads the variable but
// never calls strconv.Atoi on it, silently ignoring anything the
// operator sets; this version actually parses it.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
