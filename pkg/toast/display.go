package toast

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
)

// Sink renders a toast somewhere
type Sink interface {
	Render(ctx context.Context, t Toast) error
}

// Flusher is implemented by sinks that deliver asynchronously
type Flusher interface {
	Flush(ctx context.Context) error
}

// Display is the single consumer of a Bus
type Display struct {
	bus   *Bus
	sinks []Sink

	mu     sync.Mutex
	active []Toast
	timers map[string]*time.Timer
}

// NewDisplay creates a display rendering to sinks
func NewDisplay(bus *Bus, sinks ...Sink) *Display {
	return &Display{
		bus:    bus,
		sinks:  sinks,
		timers: make(map[string]*time.Timer),
	}
}

// Run consumes toasts until the bus is closed or ctx is cancelled. When
// the bus is closed the remaining toasts are rendered and asynchronous
// sinks are flushed before Run returns.
func (d *Display) Run(ctx context.Context) error {
	defer d.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t, ok := <-d.bus.Messages():
			if !ok {
				return d.flush(ctx)
			}
			d.show(ctx, t)
		}
	}
}

// Active returns the toasts currently visible, oldest first
func (d *Display) Active() []Toast {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Toast(nil), d.active...)
}

// Dismiss removes a toast before it expires
func (d *Display) Dismiss(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[id]; ok {
		timer.Stop()
		delete(d.timers, id)
	}
	for i, t := range d.active {
		if t.ID == id {
			d.active = append(d.active[:i], d.active[i+1:]...)
			return
		}
	}
}

func (d *Display) show(ctx context.Context, t Toast) {
	d.mu.Lock()
	d.active = append(d.active, t)
	d.timers[t.ID] = time.AfterFunc(t.Duration, func() {
		d.Dismiss(t.ID)
	})
	d.mu.Unlock()

	for _, sink := range d.sinks {
		if err := sink.Render(ctx, t); err != nil {
			ctxlog.From(ctx).Warn("Failed to render toast",
				"error", err,
				"toast_id", t.ID,
			)
		}
	}
}

func (d *Display) flush(ctx context.Context) error {
	for _, sink := range d.sinks {
		if f, ok := sink.(Flusher); ok {
			if err := f.Flush(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Display) stopTimers() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, timer := range d.timers {
		timer.Stop()
		delete(d.timers, id)
	}
}
