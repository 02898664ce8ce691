package config_test

import (
	"fmt"

	"github.com/displaywake/displaywake/internal/config"
)

// Example of creating a default configuration
func ExampleDefault() {
	cfg := config.Default()
	fmt.Println("Broker:", cfg.Broker.Host)
	fmt.Println("Active Threshold:", cfg.Wake.ActiveThreshold)
	// Output:
	// Broker: homeassistant.local
	// Active Threshold: 30
}

// Example of deriving the command topic from the room name
func ExampleConfig_Topic() {
	cfg := config.Default()
	cfg.Wake.Room = "living-room"
	fmt.Println(cfg.Topic())
	// Output:
	// ha-display-wake/living-room/command
}

// Example of validating configuration
func ExampleConfig_Validate() {
	cfg := config.Default()

	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
	} else {
		fmt.Println("Configuration is valid")
	}

	// Output:
	// Configuration is valid
}
