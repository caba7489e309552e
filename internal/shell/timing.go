package shell

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Debouncer runs the most recently triggered func once no trigger has arrived
// for the configured delay.
type Debouncer struct {
	clock Clock
	delay time.Duration

	mu    sync.Mutex
	timer Timer
	seq   uint64

	// run is held while a fired func executes; Cancel waits on it.
	run sync.Mutex
}

func NewDebouncer(clock Clock, delay time.Duration) *Debouncer {
	if clock == nil {
		clock = RealClock()
	}
	return &Debouncer{clock: clock, delay: delay}
}

func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.run.Lock()
		defer d.run.Unlock()

		d.mu.Lock()
		// A timer that lost the race with Stop or Cancel must not fire.
		current := seq == d.seq
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			f()
		}
	})
}

// Cancel drops any pending call. If a call is already running, Cancel returns
// once it has finished, so nothing it does can land after Cancel.
func (d *Debouncer) Cancel() {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Throttle allows at most one call per interval. Calls inside the window are
// dropped, not deferred.
type Throttle struct {
	clock   Clock
	limiter *rate.Limiter
}

func NewThrottle(clock Clock, interval time.Duration) *Throttle {
	if clock == nil {
		clock = RealClock()
	}
	return &Throttle{clock: clock, limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Do runs f when the window is open and reports whether it ran.
func (t *Throttle) Do(f func()) bool {
	if !t.limiter.AllowN(t.clock.Now(), 1) {
		return false
	}
	f()
	return true
}
