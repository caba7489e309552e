package widget

import (
	"context"
	"sync"
	"time"

	"shopmate/internal/metrics"
	"shopmate/internal/shell"
)

type slot struct {
	ctrl     *Controller
	once     sync.Once
	lastSeen time.Time
}

// Registry holds one Controller per browser session, built on first use.
// Sessions not seen for the idle period are forgotten on a later Get.
type Registry struct {
	build func(sid string) *Controller
	clock shell.Clock
	idle  time.Duration

	mu    sync.Mutex
	slots map[string]*slot
}

// NewRegistry returns a registry that evicts controllers idle for longer than
// idle. An idle of zero keeps them until Drop.
func NewRegistry(clock shell.Clock, idle time.Duration, build func(sid string) *Controller) *Registry {
	if clock == nil {
		clock = shell.RealClock()
	}
	return &Registry{build: build, clock: clock, idle: idle, slots: map[string]*slot{}}
}

// Get returns the controller for sid. The first caller for a session runs
// Init; concurrent callers wait for it to finish.
func (r *Registry) Get(ctx context.Context, sid string) *Controller {
	now := r.clock.Now()

	r.mu.Lock()
	r.sweep(now)
	s, ok := r.slots[sid]
	if !ok {
		s = &slot{ctrl: r.build(sid)}
		r.slots[sid] = s
		metrics.ActiveWidgets.Inc()
	}
	s.lastSeen = now
	r.mu.Unlock()

	s.once.Do(func() { s.ctrl.Init(ctx) })
	return s.ctrl
}

// sweep requires r.mu.
func (r *Registry) sweep(now time.Time) {
	if r.idle <= 0 {
		return
	}
	for sid, s := range r.slots {
		if now.Sub(s.lastSeen) >= r.idle {
			delete(r.slots, sid)
			metrics.ActiveWidgets.Dec()
		}
	}
}

// Drop forgets the controller for sid, e.g. on logout.
func (r *Registry) Drop(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[sid]; ok {
		delete(r.slots, sid)
		metrics.ActiveWidgets.Dec()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}
