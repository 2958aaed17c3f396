package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultHTTPAddr     = ":8099"
	defaultDBPath       = "/data/welkom_presence.db"
	defaultHABaseURL    = "http://supervisor/core"
	defaultPollInterval = 30 * time.Second
	defaultSetupTimeout = 10 * time.Second
)

// Config stores runtime settings loaded from environment variables.
type Config struct {
	// ClientID identifies this installation towards the Welkom API and
	// namespaces the entities derived from it.
	ClientID string
	// WelkomURL is the base URL of the Welkom API.
	WelkomURL string
	// HomeID pins the primary home when the account has access to more
	// than one. Empty means auto-resolve.
	HomeID string

	HTTPAddr     string
	DBPath       string
	PollInterval time.Duration
	SetupTimeout time.Duration
	LogLevel     slog.Level

	// HABaseURL and SupervisorToken locate the host platform's API for
	// zone coordinates. Token empty disables coordinate enrichment.
	HABaseURL       string
	SupervisorToken string
}

// Load builds Config from environment variables using stable defaults.
// Missing required settings are a startup error, not a silent default.
func Load() (Config, error) {
	cfg := Config{
		ClientID:        getenv("WELKOM_CLIENT_ID", ""),
		WelkomURL:       getenv("WELKOM_URL", ""),
		HomeID:          getenv("WELKOM_HOME_ID", ""),
		HTTPAddr:        getenv("HTTP_ADDR", defaultHTTPAddr),
		DBPath:          getenv("DB_PATH", defaultDBPath),
		PollInterval:    parseDuration("POLL_INTERVAL", defaultPollInterval),
		SetupTimeout:    parseDuration("SETUP_TIMEOUT", defaultSetupTimeout),
		LogLevel:        parseLogLevel(getenv("LOG_LEVEL", "info")),
		HABaseURL:       getenv("HA_BASE_URL", defaultHABaseURL),
		SupervisorToken: getenv("SUPERVISOR_TOKEN", ""),
	}
	if cfg.ClientID == "" {
		return Config{}, fmt.Errorf("WELKOM_CLIENT_ID is required")
	}
	if cfg.WelkomURL == "" {
		return Config{}, fmt.Errorf("WELKOM_URL is required")
	}
	return cfg, nil
}

// DBDir returns the target directory for DBPath.
func (c Config) DBDir() string {
	return filepath.Dir(c.DBPath)
}

func getenv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
