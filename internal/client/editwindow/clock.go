// Package editwindow implements the time-boxed edit gate for sales: a pure
// policy computing how long a record may still be edited, and a countdown
// that republishes that state once per second until it locks.
package editwindow

import "time"

// Clock supplies the current time. Tests inject fixed or stepping clocks;
// production code uses SystemClock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
