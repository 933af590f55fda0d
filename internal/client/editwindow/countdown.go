package editwindow

import (
	"sync"
	"time"
)

// Countdown republishes the edit-window state for one record at a fixed
// interval. At most one ticker runs per Countdown: Start stops any previous
// run, and the ticker stops itself after publishing the locked transition.
type Countdown struct {
	clock    Clock
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewCountdown builds a countdown ticking at the given interval (one second
// in production; tests use shorter intervals).
func NewCountdown(clock Clock, interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{clock: clock, interval: interval}
}

// Start begins ticking for the record created at createdAt. Each tick
// recomputes the state against the clock and passes it to onTick. Once a
// tick reports Locked, onTick is invoked with that final state and the
// ticker exits; no further work happens after lock.
//
// Every Start is paired with exactly one stop: either the self-stop on lock
// or an explicit Stop from the owner.
func (c *Countdown) Start(createdAt *time.Time, window time.Duration, onTick func(State)) {
	c.Stop()

	stop := make(chan struct{})
	done := make(chan struct{})

	c.mu.Lock()
	c.stop, c.done = stop, done
	c.mu.Unlock()

	go func() {
		defer close(done)

		t := time.NewTicker(c.interval)
		defer t.Stop()

		for {
			select {
			case <-stop:
				return
			case <-t.C:
				st := Compute(createdAt, window, c.clock.Now())
				onTick(st)
				if st.Locked {
					return
				}
			}
		}
	}()
}

// Stop cancels the current run, if any, and waits for its ticker goroutine
// to exit so that no tick can be published afterwards. It is idempotent and
// safe to call when nothing is running.
//
// Callers must not hold locks that onTick also takes, or Stop can deadlock
// waiting for an in-flight tick.
func (c *Countdown) Stop() {
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
