// Package main is the entrypoint for displaywake, a daemon that wakes
// a Linux desktop when Home Assistant says so over MQTT.
package main

import "github.com/displaywake/displaywake/internal/cli"

// version is set at build time via -ldflags.
var version = "0.1.0"

func main() {
	cli.Execute(version)
}
