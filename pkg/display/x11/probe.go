package x11

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/displaywake/displaywake/pkg/display"
)

// Probe implements display.Probe for X11 using the standard idle and
// DPMS command line tools.
type Probe struct {
	hasXprintidle bool
	hasXset       bool
}

var monitorStateRe = regexp.MustCompile(`Monitor is (\w+)`)

// NewProbe creates a new X11 probe
func NewProbe() *Probe {
	p := &Probe{}
	p.hasXprintidle = p.commandExists("xprintidle")
	p.hasXset = p.commandExists("xset")
	return p
}

// commandExists checks if a command is available in PATH
func (p *Probe) commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// IsAvailable checks if both X11 tools are present
func (p *Probe) IsAvailable() bool {
	return p.hasXprintidle && p.hasXset
}

// SessionType returns "x11"
func (p *Probe) SessionType() string {
	return display.SessionX11
}

// IdleSeconds returns seconds since the last input event, via xprintidle
func (p *Probe) IdleSeconds(ctx context.Context) (int, error) {
	callCtx, cancel := context.WithTimeout(ctx, display.CallTimeout)
	defer cancel()

	output, err := exec.CommandContext(callCtx, "xprintidle").Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle failed: %w", err)
	}

	return parseIdleSeconds(string(output))
}

// parseIdleSeconds converts xprintidle millisecond output to whole seconds
func parseIdleSeconds(output string) (int, error) {
	raw := strings.TrimSpace(output)
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected xprintidle output %q: %w", raw, err)
	}

	return int(ms / 1000), nil
}

// ScreenOff reports whether DPMS has taken the monitor out of its "On"
// state, via xset q
func (p *Probe) ScreenOff(ctx context.Context) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, display.CallTimeout)
	defer cancel()

	output, err := exec.CommandContext(callCtx, "xset", "q").Output()
	if err != nil {
		return false, fmt.Errorf("xset q failed: %w", err)
	}

	return parseScreenOff(string(output))
}

// parseScreenOff extracts the DPMS monitor state token from xset q
// output. Any token other than the literal "On" counts as off.
func parseScreenOff(output string) (bool, error) {
	match := monitorStateRe.FindStringSubmatch(output)
	if match == nil {
		return false, fmt.Errorf("no monitor state in xset output")
	}

	return match[1] != "On", nil
}

// ResetIdleTimer pokes the X screensaver timer. The display does not
// change visibly.
func (p *Probe) ResetIdleTimer(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, display.CallTimeout)
	defer cancel()

	if err := exec.CommandContext(callCtx, "xset", "s", "reset").Run(); err != nil {
		return fmt.Errorf("xset s reset failed: %w", err)
	}

	return nil
}

// WakeScreen forces the monitor on, then resets the idle timer so the
// freshly woken screen does not immediately re-arm its own timeout
func (p *Probe) WakeScreen(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, display.CallTimeout)
	defer cancel()

	if err := exec.CommandContext(callCtx, "xset", "dpms", "force", "on").Run(); err != nil {
		return fmt.Errorf("xset dpms force on failed: %w", err)
	}

	return p.ResetIdleTimer(ctx)
}

// Close cleans up resources
func (p *Probe) Close() error {
	return nil
}
