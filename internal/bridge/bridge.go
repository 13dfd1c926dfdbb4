// Package bridge moves chat payloads from the listener goroutine to the
// single-threaded host loop.
//
// The producer calls Send followed by Wake for every payload. The consumer
// blocks on Wakeups from a background goroutine (never from the host loop
// itself), then calls Drain on the host loop to process everything queued so
// far in FIFO order. Wake signals coalesce; Drain always empties the queue, so
// a wake that finds nothing to do is harmless.
package bridge

import (
	"errors"
	"sync"
)

// ErrClosed is the cause recorded when the producer closes without an error.
var ErrClosed = errors.New("listener exited")

// DisconnectedError reports that the producer side has gone away and no
// further payloads will arrive.
type DisconnectedError struct {
	Cause error
}

// Error implements the error interface.
func (e *DisconnectedError) Error() string {
	if e.Cause == nil {
		return "payload receiving error"
	}

	return "payload receiving error: " + e.Cause.Error()
}

// Unwrap returns the producer's terminal error.
func (e *DisconnectedError) Unwrap() error {
	return e.Cause
}

// Bridge is an unbounded FIFO plus a wake signal. The zero value is not
// usable; call New.
type Bridge[T any] struct {
	mu       sync.Mutex
	queue    []T
	closed   bool
	cause    error
	reported bool

	wake chan struct{}
}

// New returns an empty, open bridge.
func New[T any]() *Bridge[T] {
	return &Bridge[T]{wake: make(chan struct{}, 1)}
}

// Send appends p to the queue. It never blocks. Payloads sent after Close are
// dropped.
func (b *Bridge[T]) Send(p T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.queue = append(b.queue, p)
}

// Wake signals the consumer. It never blocks; wakes that arrive while one is
// already pending are merged.
func (b *Bridge[T]) Wake() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Close marks the producer as gone and wakes the consumer so it can observe
// the disconnect. Only the first call has any effect.
func (b *Bridge[T]) Close(err error) {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return
	}

	if err == nil {
		err = ErrClosed
	}

	b.closed = true
	b.cause = err
	b.mu.Unlock()

	b.Wake()
}

// Wakeups is the channel the consumer's background waiter blocks on.
func (b *Bridge[T]) Wakeups() <-chan struct{} {
	return b.wake
}

// Drain pops every queued payload in FIFO order and calls fn for each, on the
// caller's goroutine. fn runs without the lock held.
//
// When the queue is empty and the producer has closed, Drain returns a
// *DisconnectedError. That error is returned exactly once; later calls return
// nil and Stopped reports true.
func (b *Bridge[T]) Drain(fn func(T)) error {
	for {
		p, ok, err := b.pop()
		if err != nil {
			return err
		}

		if !ok {
			return nil
		}

		fn(p)
	}
}

func (b *Bridge[T]) pop() (T, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T

	if len(b.queue) > 0 {
		p := b.queue[0]
		b.queue[0] = zero
		b.queue = b.queue[1:]

		return p, true, nil
	}

	if b.closed && !b.reported {
		b.reported = true
		return zero, false, &DisconnectedError{Cause: b.cause}
	}

	return zero, false, nil
}

// queued reports the number of queued payloads.
func (b *Bridge[T]) queued() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.queue)
}

// Stopped reports whether the disconnect has been delivered to the consumer.
// Once true, no further payloads will ever be drained.
func (b *Bridge[T]) Stopped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.reported && len(b.queue) == 0
}
