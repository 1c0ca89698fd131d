package view

import (
	"sync"
	"time"
)

// Delays before a view navigates on its own
const (
	DeleteNavigateDelay = 1500 * time.Millisecond
	ReportNavigateDelay = 3 * time.Second
)

// AfterFunc schedules f after d and returns a function that cancels it.
// time.AfterFunc is the default; tests pass a manual scheduler.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func defaultAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// deferred holds the pending delayed navigations of a view
type deferred struct {
	mu      sync.Mutex
	after   AfterFunc
	pending []func() bool
	stopped bool
}

func newDeferred(after AfterFunc) *deferred {
	if after == nil {
		after = defaultAfterFunc
	}
	return &deferred{after: after}
}

func (d *deferred) schedule(delay time.Duration, f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = append(d.pending, d.after(delay, f))
}

func (d *deferred) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for _, stop := range d.pending {
		stop()
	}
	d.pending = nil
}
