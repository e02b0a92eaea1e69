package syncx

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Oneshot cell states. A cell leaves stateEmpty exactly once.
const (
	stateEmpty uint32 = iota
	stateReady
	stateConsumed
	stateDisconnected
)

// cell is the single slot shared by a Sender and a Receiver.
type cell[T any] struct {
	state   atomic.Uint32 // controls visibility and ownership of val
	claimed atomic.Bool   // sender side used up (sent or dropped)
	closed  atomic.Bool   // receiver dropped
	_       cpu.CacheLinePad
	done    chan struct{} // closed when state leaves stateEmpty
	val     T             // written once by the sender, read once by the receiver
}

func newCell[T any]() *cell[T] {
	return &cell[T]{done: make(chan struct{})}
}

// publish stores v and makes it visible to the receiver.
// The caller must have won the claim.
func (c *cell[T]) publish(v T) {
	c.val = v
	// val happens-before the state store, which pairs with the load in take
	c.state.Store(stateReady)
	close(c.done)
}

// abandon marks the cell as disconnected. The caller must have won the claim.
func (c *cell[T]) abandon() {
	c.state.Store(stateDisconnected)
	close(c.done)
}

// disconnect drops the sender side without sending.
// Returns false if the sender was already used.
func (c *cell[T]) disconnect() bool {
	if !c.claimed.CompareAndSwap(false, true) {
		return false
	}
	c.abandon()
	return true
}

// take moves the value out of the cell. Only the goroutine that wins the
// ready -> consumed transition reads val.
func (c *cell[T]) take() (T, error) {
	var zero T
	for {
		switch c.state.Load() {
		case stateReady:
			if c.state.CompareAndSwap(stateReady, stateConsumed) {
				v := c.val
				c.val = zero
				return v, nil
			}
			// another receiver won, reload
		case stateEmpty:
			return zero, ErrNotReady
		case stateDisconnected:
			return zero, ErrDisconnected
		default:
			return zero, ErrConsumed
		}
	}
}

// discard drops a ready value that nobody will receive.
func (c *cell[T]) discard() {
	if c.state.CompareAndSwap(stateReady, stateConsumed) {
		var zero T
		c.val = zero
	}
}
