package policy

// Decision is the action selected for one wake signal.
type Decision int

const (
	// Ignore leaves the display alone because the user is active.
	Ignore Decision = iota

	// ResetIdleTimer silently postpones the screen timeout of an
	// idle-but-lit display.
	ResetIdleTimer

	// Wake forces a dark display back on.
	Wake
)

// String returns the decision name used in logs and the wake journal
func (d Decision) String() string {
	switch d {
	case Ignore:
		return "ignore"
	case ResetIdleTimer:
		return "reset-idle-timer"
	case Wake:
		return "wake"
	default:
		return "unknown"
	}
}

// Decide classifies one wake signal from the observed display state.
// Tiers are checked in order and the first match wins:
//
//  1. idleSeconds < activeThreshold (strict) means the user is present,
//     nothing happens.
//  2. Otherwise a dark screen is woken.
//  3. Otherwise the idle timer of the still-lit screen is reset.
//
// The caller executes the returned decision; Decide itself touches
// nothing.
func Decide(idleSeconds int, screenOff bool, activeThreshold int) Decision {
	if idleSeconds < activeThreshold {
		return Ignore
	}

	if screenOff {
		return Wake
	}

	return ResetIdleTimer
}
