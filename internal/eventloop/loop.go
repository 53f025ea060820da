// Package eventloop provides the single logical thread the page controllers
// run on. Work that blocks (network requests) runs on its own goroutine and
// hands its continuation back to the loop, so controller state is only ever
// touched from one goroutine.
package eventloop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrStopped is returned by Run and RunOne once Stop has been called.
var ErrStopped = errors.New("event loop stopped")

type Loop struct {
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
	pending  atomic.Int64
	logger   *slog.Logger
}

// New creates a loop whose queue holds up to buffer pending continuations
// before Post starts blocking.
func New(buffer int, logger *slog.Logger) *Loop {
	return &Loop{
		queue:  make(chan func(), buffer),
		done:   make(chan struct{}),
		logger: logger.With("component", "eventloop"),
	}
}

// Post schedules fn to run on the loop. It may be called from any goroutine.
// Continuations posted after Stop are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}

	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Run processes continuations until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug("event loop started")

	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("event loop stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-l.done:
			l.logger.Debug("event loop stopped")
			return ErrStopped
		case fn := <-l.queue:
			fn()
		}
	}
}

// RunOne blocks until one continuation is available and runs it.
func (l *Loop) RunOne(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	case fn := <-l.queue:
		fn()
		return nil
	}
}

// RunPending runs every continuation already queued without waiting for more.
// It returns how many ran.
func (l *Loop) RunPending() int {
	n := 0
	for {
		select {
		case fn := <-l.queue:
			fn()
			n++
		default:
			return n
		}
	}
}

// Stop makes Run return and drops every later Post.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

// Pending reports how many Go calls have not yet had their continuation run.
func (l *Loop) Pending() int {
	return int(l.pending.Load())
}

// Drain runs continuations until no Go call is outstanding.
func (l *Loop) Drain(ctx context.Context) error {
	for l.Pending() > 0 {
		if err := l.RunOne(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Go runs fetch on a new goroutine and delivers its outcome to then on the loop.
func Go[T any](l *Loop, ctx context.Context, fetch func(context.Context) (T, error), then func(T, error)) {
	l.pending.Add(1)
	go func() {
		result, err := fetch(ctx)
		l.Post(func() {
			defer l.pending.Add(-1)
			then(result, err)
		})
	}()
}
