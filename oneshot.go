package syncx

import (
	"runtime"
)

// receiveSpins bounds the yielding rounds Receive makes before parking.
const receiveSpins = 64

// Sender is the sending half of a oneshot channel. It can be used once:
// either Send or Close. It is safe to call from several goroutines, but only
// the first call has any effect.
type Sender[T any] struct {
	c *cell[T]
}

// Receiver is the receiving half of a oneshot channel. The value can be taken
// once; every later attempt reports ErrConsumed.
type Receiver[T any] struct {
	c *cell[T]
}

// NewOneshot creates a linked sender and receiver sharing one slot.
//
// A sender that becomes unreachable without sending is closed when the
// garbage collector reclaims it, so its receiver observes ErrDisconnected
// instead of waiting forever. Calling Close explicitly is still preferred.
func NewOneshot[T any]() (*Sender[T], *Receiver[T]) {
	c := newCell[T]()
	s := &Sender[T]{c: c}
	runtime.AddCleanup(s, func(c *cell[T]) { c.disconnect() }, c)
	return s, &Receiver[T]{c: c}
}

// Send hands v to the receiver.
// Returns ErrAlreadySent if the sender was already used, and ErrDisconnected
// (discarding v) if the receiver was closed first.
func (s *Sender[T]) Send(v T) error {
	if !s.c.claimed.CompareAndSwap(false, true) {
		return ErrAlreadySent
	}
	if s.c.closed.Load() {
		s.c.abandon()
		return ErrDisconnected
	}
	s.c.publish(v)
	return nil
}

// Close drops the sender without sending. The receiver then observes
// ErrDisconnected. Close after Send is a no-op.
func (s *Sender[T]) Close() {
	s.c.disconnect()
}

// Receive waits for the value and takes it.
//
// It yields the processor for a bounded number of rounds, then parks on the
// ready channel until the sender sends or is dropped. Returns ErrDisconnected
// if the sender was dropped without sending and ErrConsumed if the value was
// already taken.
func (r *Receiver[T]) Receive() (T, error) {
	if r.c.closed.Load() {
		var zero T
		return zero, ErrConsumed
	}
	for i := 0; i < receiveSpins && r.c.state.Load() == stateEmpty; i++ {
		runtime.Gosched()
	}
	<-r.c.done
	return r.c.take()
}

// TryReceive takes the value if it is available and never blocks.
// Returns ErrNotReady while nothing was sent yet.
func (r *Receiver[T]) TryReceive() (T, error) {
	if r.c.closed.Load() {
		var zero T
		return zero, ErrConsumed
	}
	return r.c.take()
}

// Ready returns a channel that is closed once a value or a disconnect is
// available, for use in select statements.
func (r *Receiver[T]) Ready() <-chan struct{} {
	return r.c.done
}

// Close drops the receiver. A pending value is released and later sends
// report ErrDisconnected.
func (r *Receiver[T]) Close() {
	r.c.closed.Store(true)
	r.c.discard()
}
