package welkom

import (
	"fmt"
	"strings"
)

// StatusError is a non-success HTTP response from the Welkom service.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "welkom upstream error"
	}
	return fmt.Sprintf("welkom request %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

// ConfigError means the configured (or missing) home id cannot be
// resolved against the homes the service reports. The message enumerates
// the available ids so the user can fix their configuration.
type ConfigError struct {
	HomeID    string
	Available []string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "configuration error"
	}
	available := strings.Join(e.Available, ", ")
	if e.HomeID != "" {
		return fmt.Sprintf("home %q not found; available homes: %s", e.HomeID, available)
	}
	return "multiple homes found, specify a home id in the configuration; available homes: " + available
}
