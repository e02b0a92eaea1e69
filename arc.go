package syncx

import (
	"math"
	"runtime"
	"sync/atomic"
)

const (
	// weakLocked is stored in the weak counter while GetMut checks uniqueness.
	weakLocked = math.MaxInt64
	maxRefs    = math.MaxInt64 / 2
)

type arcInner[T any] struct {
	// number of Arc handles
	strong atomic.Int64
	// number of Weak handles, plus one shared by all Arc handles
	weak    atomic.Int64
	value   T
	release func(T)
}

// Arc is a shared handle to a value with atomic reference counting.
// The release callback runs exactly once, when the last Arc is released.
// Each handle must be released once; releasing it again is a no-op.
type Arc[T any] struct {
	inner    *arcInner[T]
	released atomic.Bool
}

// Weak is a non-owning handle that can be upgraded to an Arc while at least
// one Arc is alive.
type Weak[T any] struct {
	inner    *arcInner[T]
	released atomic.Bool
}

// NewArc wraps v. release may be nil.
func NewArc[T any](v T, release func(T)) *Arc[T] {
	inner := &arcInner[T]{value: v, release: release}
	inner.strong.Store(1)
	inner.weak.Store(1)
	return &Arc[T]{inner: inner}
}

func (a *Arc[T]) mustHold() {
	if a.released.Load() {
		panic(ErrArcReleased)
	}
}

// Value returns the shared value.
func (a *Arc[T]) Value() T {
	a.mustHold()
	return a.inner.value
}

// Clone returns a new Arc to the same value.
func (a *Arc[T]) Clone() *Arc[T] {
	a.mustHold()
	if a.inner.strong.Add(1) > maxRefs {
		panic("arc: reference count overflow")
	}
	return &Arc[T]{inner: a.inner}
}

// Downgrade returns a Weak handle to the same value.
func (a *Arc[T]) Downgrade() *Weak[T] {
	a.mustHold()
	n := a.inner.weak.Load()
	for {
		if n == weakLocked {
			// GetMut is checking uniqueness
			runtime.Gosched()
			n = a.inner.weak.Load()
			continue
		}
		if n >= maxRefs {
			panic("arc: reference count overflow")
		}
		if a.inner.weak.CompareAndSwap(n, n+1) {
			return &Weak[T]{inner: a.inner}
		}
		n = a.inner.weak.Load()
	}
}

// GetMut returns a pointer for in-place mutation when a is the only Arc and
// no Weak handle exists.
func (a *Arc[T]) GetMut() (*T, bool) {
	a.mustHold()
	if !a.inner.weak.CompareAndSwap(1, weakLocked) {
		return nil, false
	}
	unique := a.inner.strong.Load() == 1
	a.inner.weak.Store(1)
	if !unique {
		return nil, false
	}
	return &a.inner.value, true
}

// StrongCount returns the number of live Arc handles.
func (a *Arc[T]) StrongCount() int64 {
	return a.inner.strong.Load()
}

// WeakCount returns the number of live Weak handles.
func (a *Arc[T]) WeakCount() int64 {
	n := a.inner.weak.Load()
	if n == weakLocked {
		// only locked while there are no Weak handles
		return 0
	}
	if a.inner.strong.Load() > 0 {
		n--
	}
	return n
}

// Release drops this handle. The last Arc released runs the release callback.
func (a *Arc[T]) Release() {
	if !a.released.CompareAndSwap(false, true) {
		return
	}
	inner := a.inner
	if inner.strong.Add(-1) != 0 {
		return
	}
	v := inner.value
	var zero T
	inner.value = zero
	if inner.release != nil {
		inner.release(v)
	}
	inner.weak.Add(-1)
}

// Upgrade returns a new Arc if the value has not been released yet.
func (w *Weak[T]) Upgrade() (*Arc[T], bool) {
	if w.released.Load() {
		return nil, false
	}
	n := w.inner.strong.Load()
	for {
		if n == 0 {
			return nil, false
		}
		if n >= maxRefs {
			panic("arc: reference count overflow")
		}
		if w.inner.strong.CompareAndSwap(n, n+1) {
			return &Arc[T]{inner: w.inner}, true
		}
		n = w.inner.strong.Load()
	}
}

// Release drops this weak handle.
func (w *Weak[T]) Release() {
	if w.released.CompareAndSwap(false, true) {
		w.inner.weak.Add(-1)
	}
}
