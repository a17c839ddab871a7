package async

import (
	"context"
)

// Future is the eventual result of a background call. It completes exactly once.
type Future[T any] struct {
	done  chan struct{}
	value T
	found bool
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Done is closed when the Future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the Future completes or ctx is done. The bool result is false for an
// empty completion and for failures. Cancelling ctx abandons the wait, not the call.
func (f *Future[T]) Wait(ctx context.Context) (T, bool, error) {
	select {
	case <-f.done:
		return f.value, f.found, f.err
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

func (f *Future[T]) complete(value T) {
	f.value = value
	f.found = true
	close(f.done)
}

func (f *Future[T]) completeEmpty() {
	close(f.done)
}

func (f *Future[T]) fail(err error) {
	f.err = err
	close(f.done)
}
