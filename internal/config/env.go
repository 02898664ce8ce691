package config

import (
	"os"
	"strconv"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override values from the config file
func LoadFromEnv(cfg *Config) {
	// Broker configuration
	if host := os.Getenv("DISPLAYWAKE_BROKER"); host != "" {
		cfg.Broker.Host = host
	}

	if port := os.Getenv("DISPLAYWAKE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 && p <= 65535 {
			cfg.Broker.Port = p
		}
	}

	if username := os.Getenv("DISPLAYWAKE_USERNAME"); username != "" {
		cfg.Broker.Username = username
	}

	if password := os.Getenv("DISPLAYWAKE_PASSWORD"); password != "" {
		cfg.Broker.Password = password
	}

	// Wake configuration
	if room := os.Getenv("DISPLAYWAKE_ROOM"); room != "" {
		cfg.Wake.Room = room
	}

	if threshold := os.Getenv("DISPLAYWAKE_ACTIVE_THRESHOLD"); threshold != "" {
		if seconds, err := strconv.Atoi(threshold); err == nil && seconds >= 0 {
			cfg.Wake.ActiveThreshold = seconds
		}
	}

	// Web configuration
	if enabled := os.Getenv("DISPLAYWAKE_WEB_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Web.Enabled = val
		}
	}

	if host := os.Getenv("DISPLAYWAKE_WEB_HOST"); host != "" {
		cfg.Web.Host = host
	}

	if port := os.Getenv("DISPLAYWAKE_WEB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 && p <= 65535 {
			cfg.Web.Port = p
		}
	}

	// Logging configuration
	if level := os.Getenv("DISPLAYWAKE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if file := os.Getenv("DISPLAYWAKE_LOG_FILE"); file != "" {
		cfg.Logging.File = file
	}
}

// New creates a new Config with default values and loads from environment
func New() *Config {
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}
