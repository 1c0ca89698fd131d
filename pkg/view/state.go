package view

import (
	"context"
	"errors"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/client"
	"github.com/secmon-lab/civicsnap/pkg/utils/async"
)

// State is the phase of a view's data
type State string

const (
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateEmpty   State = "empty"
	StateError   State = "error"
)

func (s State) String() string {
	return string(s)
}

var (
	// ErrUnmounted is returned by operations on a view after Unmount
	ErrUnmounted = goerr.New("view is unmounted")
	// ErrActionInFlight is returned when a mutation is already running on the view
	ErrActionInFlight = goerr.New("another action is in progress")
	// ErrActionUnavailable is returned for a status change the view does not offer
	ErrActionUnavailable = goerr.New("action is not available for the current status")
	// ErrAccessDenied is returned when a guarded view is mounted without the required role
	ErrAccessDenied = goerr.New("Access denied. Admin only.")
	// ErrCancelled is returned when the user declines a confirmation
	ErrCancelled = goerr.New("cancelled by user")
)

// fetchState runs the fetches of one view. Each fetch derives a child of the
// view's lifetime context; starting a new fetch cancels the previous one and
// the generation number drops results that arrive after they were superseded.
type fetchState[T any] struct {
	mu       sync.Mutex
	lifetime context.Context
	stop     context.CancelFunc
	cancel   context.CancelFunc
	gen      uint64
	mounted  bool

	state State
	data  T
	err   error

	isEmpty func(T) bool
	onError func(err error)

	group async.Group
}

// fetcher loads the data of a view
type fetcher[T any] func(ctx context.Context) (T, error)

func newFetchState[T any](isEmpty func(T) bool) *fetchState[T] {
	return &fetchState[T]{
		state:   StateLoading,
		isEmpty: isEmpty,
	}
}

// mount binds the lifetime context. Mounting twice is a no-op.
func (f *fetchState[T]) mount(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lifetime != nil {
		return false
	}
	f.lifetime, f.stop = context.WithCancel(ctx)
	f.mounted = true
	return true
}

// unmount cancels the lifetime and any in-flight fetch
func (f *fetchState[T]) unmount() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stop != nil {
		f.stop()
	}
	f.mounted = false
}

// started reports whether mount was called
func (f *fetchState[T]) started() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lifetime != nil
}

func (f *fetchState[T]) alive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mounted && f.lifetime.Err() == nil
}

// begin moves the view into loading and clears the previous data so an old
// list is never shown next to a new one
func (f *fetchState[T]) begin() (context.Context, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.mounted || f.lifetime.Err() != nil {
		return nil, 0, ErrUnmounted
	}
	if f.cancel != nil {
		f.cancel()
	}

	var ctx context.Context
	ctx, f.cancel = context.WithCancel(f.lifetime)
	f.gen++
	f.state = StateLoading
	var zero T
	f.data = zero
	f.err = nil

	return ctx, f.gen, nil
}

// settle applies a result if it still belongs to the latest fetch
func (f *fetchState[T]) settle(gen uint64, data T, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen || !f.mounted || f.lifetime.Err() != nil {
		return false
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}

	switch {
	case err != nil:
		f.state = StateError
		f.err = err
	case f.isEmpty != nil && f.isEmpty(data):
		f.state = StateEmpty
		f.data = data
	default:
		f.state = StateLoaded
		f.data = data
	}
	return true
}

// load starts a fetch in the background
func (f *fetchState[T]) load(fetch fetcher[T]) error {
	ctx, gen, err := f.begin()
	if err != nil {
		return err
	}

	f.group.Go(ctx, func(context.Context) error {
		data, err := fetch(ctx)
		if err != nil && errors.Is(err, context.Canceled) && ctx.Err() != nil {
			ctxlog.From(ctx).Debug("Fetch superseded", "generation", gen)
			return nil
		}
		if !f.settle(gen, data, err) {
			return nil
		}
		if err != nil {
			ctxlog.From(ctx).Warn("Fetch failed", "error", err)
			if f.onError != nil {
				f.onError(err)
			}
		}
		return nil
	})
	return nil
}

// loadSync runs a fetch on the caller's goroutine. Actions use it to
// refresh before reporting their outcome.
func (f *fetchState[T]) loadSync(fetch fetcher[T]) error {
	ctx, gen, err := f.begin()
	if err != nil {
		return err
	}
	data, err := fetch(ctx)
	if f.settle(gen, data, err) && err != nil && f.onError != nil {
		f.onError(err)
	}
	return err
}

func (f *fetchState[T]) snapshot() (State, T, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := ""
	if f.err != nil {
		msg = client.Message(f.err)
	}
	return f.state, f.data, msg
}

func (f *fetchState[T]) wait(ctx context.Context) error {
	return f.group.Wait(ctx)
}
