// Package toast implements the transient notification surface. Any view
// produces messages on a Bus; a single Display consumes them, keeps the
// active list and expires each message after its duration.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

const (
	// DefaultDuration is how long a toast stays visible
	DefaultDuration = 3 * time.Second
	// DefaultBuffer is the number of toasts the bus holds before dropping
	DefaultBuffer = 64
)

// Toast is a single transient message
type Toast struct {
	ID        string
	Text      string
	Kind      types.ToastKind
	Duration  time.Duration
	CreatedAt time.Time
}

// ExpiresAt returns when the toast is dismissed
func (t Toast) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.Duration)
}

// Bus is the producer side. Sending never blocks: when the buffer is full
// the toast is dropped.
type Bus struct {
	ch       chan Toast
	duration time.Duration
	now      func() time.Time

	mu     sync.RWMutex
	closed bool
}

// BusOption configures a Bus
type BusOption func(*Bus)

// WithDuration sets the display duration of every toast
func WithDuration(d time.Duration) BusOption {
	return func(b *Bus) {
		if d > 0 {
			b.duration = d
		}
	}
}

// WithBuffer sets the channel capacity
func WithBuffer(n int) BusOption {
	return func(b *Bus) {
		if n > 0 {
			b.ch = make(chan Toast, n)
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) BusOption {
	return func(b *Bus) {
		b.now = now
	}
}

// NewBus creates a bus
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		ch:       make(chan Toast, DefaultBuffer),
		duration: DefaultDuration,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Show publishes text with the given kind. Unknown kinds fall back to
// success. It returns false if the toast was dropped.
func (b *Bus) Show(text string, kind types.ToastKind) (Toast, bool) {
	if !kind.IsValid() {
		kind = types.ToastSuccess
	}
	t := Toast{
		ID:        uuid.NewString(),
		Text:      text,
		Kind:      kind,
		Duration:  b.duration,
		CreatedAt: b.now(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return t, false
	}

	select {
	case b.ch <- t:
		return t, true
	default:
		return t, false
	}
}

// Success publishes a success toast
func (b *Bus) Success(text string) { b.Show(text, types.ToastSuccess) }

// Error publishes an error toast
func (b *Bus) Error(text string) { b.Show(text, types.ToastError) }

// Info publishes an info toast
func (b *Bus) Info(text string) { b.Show(text, types.ToastInfo) }

// Warning publishes a warning toast
func (b *Bus) Warning(text string) { b.Show(text, types.ToastWarning) }

// Messages is the consumer side of the bus
func (b *Bus) Messages() <-chan Toast {
	return b.ch
}

// Close stops accepting toasts. Buffered toasts are still delivered.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
}
