package setup

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/dpms"

	"github.com/displaywake/displaywake/pkg/display"
)

// defaultScreenTimeout is used when the X server cannot say when it
// blanks the screen.
const defaultScreenTimeout = 1200

// detectScreenTimeout returns the DPMS timeout of the running X
// server in seconds. Non-X11 sessions and servers without DPMS get
// the default.
func detectScreenTimeout(sessionType string) int {
	if sessionType != display.SessionX11 {
		return defaultScreenTimeout
	}

	timeout, err := dpmsTimeout()
	if err != nil {
		return defaultScreenTimeout
	}
	return timeout
}

// dpmsTimeout asks the X server for its DPMS timeouts and returns
// the shortest one that is enabled.
func dpmsTimeout() (int, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return 0, fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer conn.Close()

	if err := dpms.Init(conn); err != nil {
		return 0, fmt.Errorf("DPMS extension unavailable: %w", err)
	}

	capable, err := dpms.Capable(conn).Reply()
	if err != nil || capable == nil || !capable.Capable {
		return 0, fmt.Errorf("display is not DPMS capable")
	}

	reply, err := dpms.GetTimeouts(conn).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to query DPMS timeouts: %w", err)
	}

	timeout := 0
	for _, t := range []uint16{reply.StandbyTimeout, reply.SuspendTimeout, reply.OffTimeout} {
		if t == 0 {
			continue
		}
		if timeout == 0 || int(t) < timeout {
			timeout = int(t)
		}
	}

	if timeout == 0 {
		return 0, fmt.Errorf("DPMS timeouts are disabled")
	}

	return timeout, nil
}
