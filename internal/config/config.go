// Package config holds client configuration for Vista.
//
// Values come from the environment (a local .env file is honored via
// godotenv) with defaults that match the stock RebarVista device setup:
// Flask API on port 5000, 30 second status poll, exports into the
// current directory.
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all tunables for the dashboard client.
type Config struct {
	// DeviceURL is the base HTTP URL of the analysis device.
	DeviceURL string

	// PushURL is the websocket push-channel URL. When empty it is
	// derived from DeviceURL (http -> ws) with path /ws.
	PushURL string

	// PollInterval is the fixed connection-status poll period.
	// Polling is strictly periodic; there is no adaptive backoff.
	PollInterval time.Duration

	// RequestTimeout bounds each individual device API request.
	RequestTimeout time.Duration

	// ResultDelay is how long to wait after a capture command is
	// accepted before fetching the asynchronously produced result.
	ResultDelay time.Duration

	// WatchWindow is the total time a capture result is waited for
	// before it is reported as timed out.
	WatchWindow time.Duration

	// ExportDir is where CSV, image and report exports are written.
	ExportDir string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment
// variables win over .env entries.
func Load() *Config {
	godotenv.Load()

	return &Config{
		DeviceURL:      getEnv("VISTA_DEVICE_URL", "http://raspberrypi.local:5000"),
		PushURL:        getEnv("VISTA_PUSH_URL", ""),
		PollInterval:   getEnvAsDuration("VISTA_POLL_INTERVAL", 30*time.Second),
		RequestTimeout: getEnvAsDuration("VISTA_REQUEST_TIMEOUT", 10*time.Second),
		ResultDelay:    getEnvAsDuration("VISTA_RESULT_DELAY", 2*time.Second),
		WatchWindow:    getEnvAsDuration("VISTA_WATCH_WINDOW", 5*time.Second),
		ExportDir:      getEnv("VISTA_EXPORT_DIR", "."),
	}
}

// ResolvedPushURL returns the push-channel URL, deriving it from the
// device URL when it was not configured explicitly.
func (c *Config) ResolvedPushURL() string {
	if c.PushURL != "" {
		return c.PushURL
	}

	u, err := url.Parse(c.DeviceURL)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// Bare numbers are taken as seconds, matching the device's own config.
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
