package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// topicPrefix is the fixed first level of the command topic. The room
// name from Wake.Room forms the second level.
const topicPrefix = "ha-display-wake"

// Config holds all daemon configuration
type Config struct {
	// Broker connection settings
	Broker BrokerConfig `toml:"broker"`

	// Wake policy settings
	Wake WakeConfig `toml:"wake"`

	// Optional local status API
	Web WebConfig `toml:"web"`

	// Logging settings
	Logging LoggingConfig `toml:"logging"`
}

// BrokerConfig holds MQTT broker connection settings
type BrokerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// WakeConfig holds the wake policy settings
type WakeConfig struct {
	Room            string `toml:"room"`
	ActiveThreshold int    `toml:"active_threshold"` // Seconds of recent input that suppress any action
	ScreenTimeout   int    `toml:"screen_timeout"`   // Detected at setup, informational only
}

// WebConfig holds the settings for the local status API, which is off
// unless enabled
type WebConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Broker: BrokerConfig{
			Host: "homeassistant.local",
			Port: 1883,
		},
		Wake: WakeConfig{
			Room:            "office",
			ActiveThreshold: 30,   // 30 seconds of recent input
			ScreenTimeout:   1200, // 20 minutes, replaced by setup detection
		},
		Web: WebConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    8077,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(Home(), "displaywake.log"),
		},
	}
}

// Topic returns the command topic derived from the room name
func (c *Config) Topic() string {
	return fmt.Sprintf("%s/%s/command", topicPrefix, c.Wake.Room)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Broker.Host == "" {
		return fmt.Errorf("broker host cannot be empty")
	}

	if c.Broker.Port < 1 || c.Broker.Port > 65535 {
		return fmt.Errorf("broker port must be between 1 and 65535, got %d", c.Broker.Port)
	}

	if c.Wake.Room == "" {
		return fmt.Errorf("room name cannot be empty")
	}

	// The room becomes a single topic level, so separators and
	// wildcards would change what the daemon subscribes to.
	if strings.ContainsAny(c.Wake.Room, "/+#") {
		return fmt.Errorf("room name must not contain '/', '+' or '#', got %q", c.Wake.Room)
	}

	if c.Wake.ActiveThreshold < 0 {
		return fmt.Errorf("active threshold cannot be negative")
	}

	if c.Wake.ScreenTimeout < 0 {
		return fmt.Errorf("screen timeout cannot be negative")
	}

	if c.Web.Enabled {
		if c.Web.Host == "" {
			return fmt.Errorf("web host cannot be empty when the status API is enabled")
		}
		if c.Web.Port < 1 || c.Web.Port > 65535 {
			return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
		}
	}

	return nil
}

// String returns a string representation of the config. The password
// is masked.
func (c *Config) String() string {
	username := c.Broker.Username
	if username == "" {
		username = "(none)"
	}
	password := "(none)"
	if c.Broker.Password != "" {
		password = "(set)"
	}
	web := "disabled"
	if c.Web.Enabled {
		web = fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
	}

	return fmt.Sprintf(`Configuration:
  Broker:
    Host: %s
    Port: %d
    Username: %s
    Password: %s
  Wake:
    Room: %s
    Topic: %s
    Active Threshold: %ds
    Screen Timeout: %ds
  Status API: %s
  Logging:
    Level: %s
    File: %s`,
		c.Broker.Host,
		c.Broker.Port,
		username,
		password,
		c.Wake.Room,
		c.Topic(),
		c.Wake.ActiveThreshold,
		c.Wake.ScreenTimeout,
		web,
		c.Logging.Level,
		c.Logging.File,
	)
}
