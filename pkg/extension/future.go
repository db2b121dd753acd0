package extension

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadyResolved is returned when a Future is resolved a second time.
var ErrAlreadyResolved = errors.New("extension: future already resolved")

// Future is a single-assignment value. The zero value is ready to use.
type Future[T any] struct {
	once  sync.Once
	mu    sync.Mutex
	ready chan struct{}
	value T
	set   bool
}

func (f *Future[T]) init() {
	f.once.Do(func() {
		f.ready = make(chan struct{})
	})
}

// Resolve publishes v to every current and future waiter. Only the first call
// takes effect; later calls return ErrAlreadyResolved and leave the value
// unchanged.
func (f *Future[T]) Resolve(v T) error {
	f.init()

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.set {
		return ErrAlreadyResolved
	}

	f.value = v
	f.set = true
	close(f.ready)

	return nil
}

// Done returns a channel closed once the Future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	f.init()

	return f.ready
}

// Wait blocks until the Future is resolved or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	f.init()

	select {
	case <-f.ready:
		f.mu.Lock()
		defer f.mu.Unlock()

		return f.value, nil
	case <-ctx.Done():
		var zero T

		return zero, ctx.Err()
	}
}

// Peek returns the value without blocking.
func (f *Future[T]) Peek() (T, bool) {
	f.init()

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.value, f.set
}
