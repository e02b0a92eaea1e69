package syncx

import (
	"sync"

	list "github.com/bahlo/generic-list-go"
)

// Channel is an unbounded FIFO queue. Send never blocks; Receive parks the
// calling goroutine on a condition variable until an item is available.
//
// A Channel has no close: a receiver waiting on an empty channel that will
// never be sent to again blocks forever.
// Create instances with NewChannel.
type Channel[T any] struct {
	mu    sync.Mutex
	ready *sync.Cond
	queue *list.List[T]

	// guarded by mu
	sent     uint64
	received uint64
	waits    uint64
}

// ChannelStats is a snapshot of the channel counters.
type ChannelStats struct {
	Sent     uint64
	Received uint64
	Waits    uint64 // times a receiver parked on an empty queue
	Len      int
}

// NewChannel creates an empty channel.
func NewChannel[T any]() *Channel[T] {
	c := &Channel[T]{queue: list.New[T]()}
	c.ready = sync.NewCond(&c.mu)
	return c
}

// Send appends v to the back of the queue and wakes one waiting receiver.
func (c *Channel[T]) Send(v T) {
	c.push(v)
	c.ready.Signal()
}

func (c *Channel[T]) push(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.PushBack(v)
	c.sent++
}

// Receive removes and returns the oldest item, waiting while the queue is
// empty. The emptiness check is repeated after every wakeup, since a wakeup
// may be spurious or the item may already be taken by another receiver.
func (c *Channel[T]) Receive() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.queue.Len() == 0 {
		c.waits++
		c.ready.Wait()
	}
	return c.pop()
}

// TryReceive removes and returns the oldest item if there is one.
// It never waits.
func (c *Channel[T]) TryReceive() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.queue.Len() == 0 {
		var zero T
		return zero, false
	}
	return c.pop(), true
}

// pop must be called with mu held and a non-empty queue.
func (c *Channel[T]) pop() T {
	e := c.queue.Front()
	v := e.Value
	c.queue.Remove(e)
	c.received++
	return v
}

// Len returns the number of queued items.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}

// Stats returns the current channel counters.
func (c *Channel[T]) Stats() ChannelStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ChannelStats{
		Sent:     c.sent,
		Received: c.received,
		Waits:    c.waits,
		Len:      c.queue.Len(),
	}
}
