package mockapi

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/inclusive/pkg/jwtx"
)

type Config struct {
	Port                int           // HTTP server port (default: 5000)
	Issuer              string        // iss claim of issued tokens (default: a11y-api)
	JWTSecret           string        // HS256 secret, at least 32 bytes; generated when empty
	TokenTTL            time.Duration // access token lifetime (default: 24h)
	PepperFile          string        // password pepper file; empty keeps the pepper in memory
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Port:                getEnvIntOrDefault("MOCKAPI_PORT", 5000),
		Issuer:              getEnvOrDefault("MOCKAPI_ISSUER", "a11y-api"),
		JWTSecret:           os.Getenv("MOCKAPI_JWT_SECRET"),
		TokenTTL:            getEnvDurationOrDefault("MOCKAPI_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		PepperFile:          os.Getenv("MOCKAPI_PEPPER_FILE"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
