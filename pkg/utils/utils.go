// Package utils holds small formatting helpers shared by the command
// line and the reporter.
package utils

import "fmt"

// FormatIdle renders an idle time in seconds as a compact single-unit
// string: seconds under a minute, minutes up to an hour, hours beyond.
func FormatIdle(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds <= 3600:
		return fmt.Sprintf("%dm", seconds/60)
	default:
		return fmt.Sprintf("%dh", seconds/3600)
	}
}
