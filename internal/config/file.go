package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const configFileName = "config.toml"

// Home returns the directory that holds the config file, the wake
// journal and the default log file. DISPLAYWAKE_HOME overrides the
// default of ~/.config/displaywake.
func Home() string {
	if home := os.Getenv("DISPLAYWAKE_HOME"); home != "" {
		return home
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".displaywake")
	}

	return filepath.Join(homeDir, ".config", "displaywake")
}

// Path returns the full path to the config file
func Path() string {
	return filepath.Join(Home(), configFileName)
}

// Exists reports whether a config file has been written
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Load reads the config file, falling back to defaults when none
// exists yet. Environment variables override whatever was loaded.
func Load() (*Config, error) {
	cfg := Default()

	path := Path()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	LoadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the config file, creating the config
// directory if needed
func (c *Config) Save() error {
	if err := os.MkdirAll(Home(), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(Path())
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
