package async

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs handler in a goroutine with panic recovery. The handler
// gets a fresh background context carrying the caller's logger so it is
// not cancelled with the caller. The returned channel closes when the
// handler has finished.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) <-chan struct{} {
	newCtx := newBackgroundContext(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				ctxlog.From(newCtx).Error("Panic in async handler",
					"recover", r,
					"stack", string(stack),
				)
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("Error in async handler",
				"error", err,
			)
		}
	}()

	return done
}

// Group tracks dispatched handlers so a caller can wait for all of them
// before exiting.
type Group struct {
	wg sync.WaitGroup
}

// Go dispatches handler and tracks it in the group
func (g *Group) Go(ctx context.Context, handler func(ctx context.Context) error) {
	g.wg.Add(1)
	done := Dispatch(ctx, handler)
	go func() {
		<-done
		g.wg.Done()
	}()
}

// Wait blocks until every tracked handler finished or ctx is done
func (g *Group) Wait(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// newBackgroundContext creates a new background context preserving the logger
func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()

	if logger := ctxlog.From(ctx); logger != nil {
		newCtx = ctxlog.With(newCtx, logger)
	}

	return newCtx
}
