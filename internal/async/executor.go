// Package async provides the non-blocking call model on top of the blocking use cases.
//
// An Executor runs calls in background goroutines with a bound on the number of calls in
// flight. Each call yields a Future that completes exactly once, either with a value, with
// an empty completion (the use case reported "absent") or with an error.
//
// A call whose context is cancelled while it waits for an in-flight slot is never started;
// its Future completes with the context error. Once started, a call runs to completion and
// its result is delivered even if nobody waits for it.
package async

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	apperrors "github.com/allisson/vaultops/internal/errors"
)

// ErrExecutorClosed is returned by futures submitted after Close.
var ErrExecutorClosed = apperrors.Wrap(apperrors.ErrRejected, "async executor is closed")

// Executor runs submitted calls with at most maxInFlight running at once.
type Executor struct {
	sem    *semaphore.Weighted
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewExecutor creates an Executor. A maxInFlight below 1 is treated as 1.
func NewExecutor(maxInFlight int64, logger *slog.Logger) *Executor {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{
		sem:    semaphore.NewWeighted(maxInFlight),
		logger: logger,
	}
}

// Close stops accepting new calls and waits for submitted ones to complete.
func (e *Executor) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.wg.Wait()
}

// spawn runs fn in the background once a slot is free. It reports false when the
// executor is closed and nothing was scheduled.
func (e *Executor) spawn(ctx context.Context, fn func(ctx context.Context), cancelled func(err error)) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return false
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		if err := e.sem.Acquire(ctx, 1); err != nil {
			e.logger.Debug("async call cancelled before start", slog.Any("error", err))
			cancelled(err)
			return
		}
		defer e.sem.Release(1)

		fn(ctx)
	}()
	return true
}

// Submit runs fn in the background. The Future completes with fn's value, or with its error.
func Submit[T any](ctx context.Context, e *Executor, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	scheduled := e.spawn(ctx,
		func(ctx context.Context) {
			value, err := fn(ctx)
			if err != nil {
				f.fail(err)
				return
			}
			f.complete(value)
		},
		f.fail,
	)
	if !scheduled {
		f.fail(ErrExecutorClosed)
	}
	return f
}

// SubmitOptional runs a lookup in the background. A nil result with a nil error completes
// the Future empty.
func SubmitOptional[T any](ctx context.Context, e *Executor, fn func(ctx context.Context) (*T, error)) *Future[*T] {
	f := newFuture[*T]()
	scheduled := e.spawn(ctx,
		func(ctx context.Context) {
			value, err := fn(ctx)
			switch {
			case err != nil:
				f.fail(err)
			case value == nil:
				f.completeEmpty()
			default:
				f.complete(value)
			}
		},
		f.fail,
	)
	if !scheduled {
		f.fail(ErrExecutorClosed)
	}
	return f
}
