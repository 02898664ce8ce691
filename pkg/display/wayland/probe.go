package wayland

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/displaywake/displaywake/pkg/display"
)

const (
	screensaverDest = "org.gnome.ScreenSaver"
	screensaverPath = "/org/gnome/ScreenSaver"

	idleMonitorDest = "org.gnome.Mutter.IdleMonitor"
	idleMonitorPath = "/org/gnome/Mutter/IdleMonitor/Core"
)

// Probe implements display.Probe for GNOME Wayland sessions via the
// session bus.
type Probe struct {
	conn *dbus.Conn
}

// NewProbe creates a new Wayland probe. An unreachable session bus does
// not fail construction; every call then reports an error and the
// caller falls back to its safe default.
func NewProbe() *Probe {
	p := &Probe{}
	if conn, err := dbus.ConnectSessionBus(); err == nil {
		p.conn = conn
	}
	return p
}

func (p *Probe) object(dest, path string) (dbus.BusObject, error) {
	if p.conn == nil {
		return nil, fmt.Errorf("session bus unavailable")
	}
	return p.conn.Object(dest, dbus.ObjectPath(path)), nil
}

// IsAvailable checks if the session bus could be reached
func (p *Probe) IsAvailable() bool {
	return p.conn != nil
}

// SessionType returns "wayland"
func (p *Probe) SessionType() string {
	return display.SessionWayland
}

// IdleSeconds returns seconds since the last input event, from the
// Mutter idle monitor
func (p *Probe) IdleSeconds(ctx context.Context) (int, error) {
	obj, err := p.object(idleMonitorDest, idleMonitorPath)
	if err != nil {
		return 0, err
	}

	callCtx, cancel := context.WithTimeout(ctx, display.CallTimeout)
	defer cancel()

	var ms uint64
	call := obj.CallWithContext(callCtx, idleMonitorDest+".GetIdletime", 0)
	if err := call.Store(&ms); err != nil {
		return 0, fmt.Errorf("GetIdletime failed: %w", err)
	}

	return int(ms / 1000), nil
}

// ScreenOff reports whether the GNOME screensaver is active
func (p *Probe) ScreenOff(ctx context.Context) (bool, error) {
	obj, err := p.object(screensaverDest, screensaverPath)
	if err != nil {
		return false, err
	}

	callCtx, cancel := context.WithTimeout(ctx, display.CallTimeout)
	defer cancel()

	var active bool
	call := obj.CallWithContext(callCtx, screensaverDest+".GetActive", 0)
	if err := call.Store(&active); err != nil {
		return false, fmt.Errorf("GetActive failed: %w", err)
	}

	return active, nil
}

// ResetIdleTimer simulates user activity against the screensaver
// service. The display does not change visibly.
func (p *Probe) ResetIdleTimer(ctx context.Context) error {
	obj, err := p.object(screensaverDest, screensaverPath)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, display.CallTimeout)
	defer cancel()

	call := obj.CallWithContext(callCtx, screensaverDest+".SimulateUserActivity", 0)
	if call.Err != nil {
		return fmt.Errorf("SimulateUserActivity failed: %w", call.Err)
	}

	return nil
}

// WakeScreen deactivates the screensaver, which brings the display back
func (p *Probe) WakeScreen(ctx context.Context) error {
	obj, err := p.object(screensaverDest, screensaverPath)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, display.CallTimeout)
	defer cancel()

	call := obj.CallWithContext(callCtx, screensaverDest+".SetActive", 0, false)
	if call.Err != nil {
		return fmt.Errorf("SetActive failed: %w", call.Err)
	}

	return nil
}

// Close releases the session bus connection
func (p *Probe) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
