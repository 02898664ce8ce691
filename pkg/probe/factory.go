package probe

import (
	"os"

	"github.com/displaywake/displaywake/pkg/display"
	"github.com/displaywake/displaywake/pkg/display/wayland"
	"github.com/displaywake/displaywake/pkg/display/x11"
)

// New returns the probe for the session type detected from the
// environment. The choice is made once per process.
func New() display.Probe {
	return ForSession(DetectSessionType())
}

// ForSession returns the probe implementation for a session type.
// Anything that is not recognizably Wayland gets the X11 probe.
func ForSession(sessionType string) display.Probe {
	if sessionType == display.SessionWayland {
		return wayland.NewProbe()
	}
	return x11.NewProbe()
}

// DetectSessionType resolves the windowing backend from the process
// environment.
func DetectSessionType() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return display.SessionWayland
	}

	if sessionType == "x11" || x11Display != "" {
		return display.SessionX11
	}

	return "unknown"
}
