// Package syncx provides small synchronization primitives for goroutines:
// a busy-waiting SpinLock cell, an unbounded blocking Channel built on a
// mutex and condition variable, a single-use Oneshot handoff and an atomically
// reference counted Arc handle.
//
// Each primitive is self-contained. None of them supports timeouts or
// cancellation; callers that need it layer it on top.
package syncx
