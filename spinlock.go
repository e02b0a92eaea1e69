package syncx

import (
	"runtime"
	"sync/atomic"

	"github.com/valyala/fastrand"
	"golang.org/x/sys/cpu"
)

const (
	unlocked uint32 = iota
	locked
)

// maxSpins bounds the randomized number of failed polls between yields.
const maxSpins = 64

// SpinLock is a value of type T guarded by a busy-waiting lock.
//
// Lock never parks the goroutine on a semaphore: a contended Lock keeps
// polling the flag and only yields the processor with runtime.Gosched. Use it
// for very short critical sections; sync.Mutex is the blocking alternative.
//
// The zero value is an unlocked lock holding the zero T.
// A SpinLock must not be copied after first use.
type SpinLock[T any] struct {
	locked atomic.Uint32
	_      cpu.CacheLinePad
	value  T
	_      cpu.CacheLinePad

	acquisitions atomic.Uint64
	contended    atomic.Uint64
	spins        atomic.Uint64
}

// SpinLockStats is a snapshot of the lock counters.
type SpinLockStats struct {
	Acquisitions uint64 // successful Lock and TryLock calls
	Contended    uint64 // Lock calls that found the lock held
	Spins        uint64 // failed polls while contended
}

// NewSpinLock creates an unlocked SpinLock holding v.
func NewSpinLock[T any](v T) *SpinLock[T] {
	return &SpinLock[T]{value: v}
}

// Lock acquires the lock, spinning until it is available, and returns the
// guard that grants access to the value. The guard must be released with
// Unlock, normally via defer.
func (sl *SpinLock[T]) Lock() *Guard[T] {
	if !sl.locked.CompareAndSwap(unlocked, locked) {
		sl.contended.Add(1)
		sl.spin()
	}
	sl.acquisitions.Add(1)
	return &Guard[T]{lock: sl}
}

// spin polls the flag until the CAS succeeds. The flag is only written when
// it was observed free, so waiters do not bounce the cache line.
func (sl *SpinLock[T]) spin() {
	var spins uint64
	budget := uint64(fastrand.Uint32n(maxSpins)) + 1
	for {
		for sl.locked.Load() == locked {
			spins++
			if spins%budget == 0 {
				runtime.Gosched()
			}
		}
		if sl.locked.CompareAndSwap(unlocked, locked) {
			break
		}
		spins++
	}
	sl.spins.Add(spins)
}

// TryLock makes a single attempt to acquire the lock.
func (sl *SpinLock[T]) TryLock() (*Guard[T], bool) {
	if !sl.locked.CompareAndSwap(unlocked, locked) {
		return nil, false
	}
	sl.acquisitions.Add(1)
	return &Guard[T]{lock: sl}, true
}

// With runs fn with exclusive access to the value. The lock is released on
// every exit path of fn, including a panic.
func (sl *SpinLock[T]) With(fn func(v *T)) {
	g := sl.Lock()
	defer g.Unlock()
	fn(g.Value())
}

// Stats returns the current lock counters.
func (sl *SpinLock[T]) Stats() SpinLockStats {
	return SpinLockStats{
		Acquisitions: sl.acquisitions.Load(),
		Contended:    sl.contended.Load(),
		Spins:        sl.spins.Load(),
	}
}

// Guard is a held SpinLock. It belongs to the goroutine that acquired it.
type Guard[T any] struct {
	lock     *SpinLock[T]
	released bool
}

// Value returns a pointer to the protected value.
// The pointer must not be used after Unlock.
func (g *Guard[T]) Value() *T {
	g.mustHold()
	return &g.lock.value
}

// Get returns a copy of the protected value.
func (g *Guard[T]) Get() T {
	g.mustHold()
	return g.lock.value
}

// Set replaces the protected value.
func (g *Guard[T]) Set(v T) {
	g.mustHold()
	g.lock.value = v
}

// Unlock releases the lock. Calling it again on the same guard is a no-op,
// so a deferred Unlock may follow an explicit one.
func (g *Guard[T]) Unlock() {
	if g.released {
		return
	}
	g.released = true
	g.lock.locked.Store(unlocked)
}

func (g *Guard[T]) mustHold() {
	if g.released {
		panic(ErrGuardReleased)
	}
}
