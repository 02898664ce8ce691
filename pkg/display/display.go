package display

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Session types reported by probes and the factory.
const (
	SessionX11     = "x11"
	SessionWayland = "wayland"
)

// CallTimeout bounds every external idle or power call a probe makes.
const CallTimeout = 5 * time.Second

// State is a point-in-time observation of the local display. It is
// recomputed for every wake signal and never cached.
type State struct {
	IdleSeconds int  // Seconds since the last local input
	ScreenOff   bool // Display blanked or screensaver active

	// IdleDegraded and PowerDegraded record that the corresponding
	// query failed and its safe default was substituted.
	IdleDegraded  bool
	PowerDegraded bool
}

// Probe is the interface that all display backend implementations must satisfy
type Probe interface {
	// IdleSeconds returns whole seconds since the last local input event
	IdleSeconds(ctx context.Context) (int, error)

	// ScreenOff reports whether the display is powered down or covered
	// by an active screensaver
	ScreenOff(ctx context.Context) (bool, error)

	// ResetIdleTimer postpones the session idle timeout without any
	// visible effect on the display
	ResetIdleTimer(ctx context.Context) error

	// WakeScreen forces the display back on
	WakeScreen(ctx context.Context) error

	// IsAvailable checks if this probe can run on the current system
	IsAvailable() bool

	// SessionType returns the backend type ("x11" or "wayland")
	SessionType() string

	// Close cleans up any resources used by the probe
	Close() error
}

// Observe queries the probe for the current display state. A failed
// idle query degrades to 0, treating the user as active; a failed
// power query degrades to screen-on. Substitutions are logged at
// warning level and flagged on the returned State.
func Observe(ctx context.Context, p Probe, log *logrus.Entry) State {
	var state State

	idle, err := p.IdleSeconds(ctx)
	if err != nil {
		log.Warnf("Idle query failed, assuming user is active: %v", err)
		state.IdleDegraded = true
	} else {
		state.IdleSeconds = idle
	}

	off, err := p.ScreenOff(ctx)
	if err != nil {
		log.Warnf("Power query failed, assuming screen is on: %v", err)
		state.PowerDegraded = true
	} else {
		state.ScreenOff = off
	}

	return state
}
