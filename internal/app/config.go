package app

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aussiebroadwan/inclusive/pkg/a11ysdk"
)

// MemoryState selects the in-memory store instead of a state file.
const MemoryState = ":memory:"

type Config struct {
	APIURL           string        // remote API base URL (default: http://localhost:5000/api)
	StateFile        string        // sqlite state file, or ":memory:" (default: <user config dir>/a11y/state.db)
	HTTPTimeout      time.Duration // per-request timeout of the SDK client (default: 10s)
	CheckTokenExpiry bool          // drop an expired JWT on start without a network call (default: true)
	SyncSettings     bool          // push settings changes to the server when logged in (default: true)
	Env              string        // Environment (dev, staging, prod) (default: prod)
	LogLevel         string        // Log level (debug, info, warn, error) (default: warn)
	LogFormat        string        // Log format (json, text) (default: text)
	LogOutput        io.Writer     // where logs go (default: stderr)
}

func LoadConfig() Config {
	return Config{
		APIURL:           getEnvOrDefault("A11Y_API_URL", a11ysdk.DefaultBaseURL),
		StateFile:        getEnvOrDefault("A11Y_STATE_FILE", defaultStateFile()),
		HTTPTimeout:      getEnvDurationOrDefault("A11Y_HTTP_TIMEOUT", a11ysdk.DefaultTimeout),
		CheckTokenExpiry: getEnvBoolOrDefault("A11Y_CHECK_TOKEN_EXPIRY", true),
		SyncSettings:     getEnvBoolOrDefault("A11Y_SYNC_SETTINGS", true),
		Env:              getEnvOrDefault("ENV", "prod"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat:        getEnvOrDefault("LOG_FORMAT", "text"),
		LogOutput:        os.Stderr,
	}
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "a11y-state.db"
	}
	return filepath.Join(dir, "a11y", "state.db")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
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

	// Bare integers are seconds here; request timeouts are short.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
