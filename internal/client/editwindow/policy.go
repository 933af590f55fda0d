package editwindow

import "time"

// State is the derived edit-window projection for a loaded record. It is
// recomputed, never stored.
type State struct {
	// Remaining is the whole floored seconds left in the window, never
	// negative.
	Remaining int64
	// Locked reports that the window has closed. Remaining == 0 and Locked
	// are equivalent.
	Locked bool
}

// Compute derives the edit-window state for a record created at createdAt
// given the configured window and the current instant.
//
// A nil or zero createdAt counts as already expired: when the server's
// timestamp is missing or unparseable the client denies edits and lets the
// server arbitrate, rather than guessing in the user's favor.
func Compute(createdAt *time.Time, window time.Duration, now time.Time) State {
	if createdAt == nil || createdAt.IsZero() {
		return State{Remaining: 0, Locked: true}
	}
	deadline := createdAt.Add(window)
	secs := int64(deadline.Sub(now) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return State{Remaining: secs, Locked: secs == 0}
}
