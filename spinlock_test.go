package syncx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 10 goroutines x 1000 increments must add up exactly.
func TestSpinLockCounter(t *testing.T) {
	const (
		goroutines = 10
		iterations = 1000
	)

	sl := NewSpinLock(0)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				guard := sl.Lock()
				*guard.Value()++
				guard.Unlock()
			}
		}()
	}
	wg.Wait()

	guard := sl.Lock()
	defer guard.Unlock()
	if v := guard.Get(); v != goroutines*iterations {
		t.Fatalf("expected %d, got %d (mutual exclusion violated)", goroutines*iterations, v)
	}
	if st := sl.Stats(); st.Acquisitions != goroutines*iterations+1 {
		t.Fatalf("expected %d acquisitions, got %d", goroutines*iterations+1, st.Acquisitions)
	}
}

func TestSpinLockCounterGrid(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		goroutines int
		iterations int
	}{
		"single":       {goroutines: 1, iterations: 1},
		"one writer":   {goroutines: 1, iterations: 5000},
		"many short":   {goroutines: 64, iterations: 10},
		"few long":     {goroutines: 4, iterations: 20_000},
		"more than Ps": {goroutines: 32, iterations: 500},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var sl SpinLock[int]
			var wg sync.WaitGroup
			wg.Add(tc.goroutines)
			for g := 0; g < tc.goroutines; g++ {
				go func() {
					defer wg.Done()
					for i := 0; i < tc.iterations; i++ {
						sl.With(func(v *int) { *v++ })
					}
				}()
			}
			wg.Wait()

			sl.With(func(v *int) {
				assert.Equal(t, tc.goroutines*tc.iterations, *v)
			})
		})
	}
}

// Port of the two-writer vector scenario: each critical section is atomic.
func TestSpinLockSlice(t *testing.T) {
	sl := NewSpinLock[[]int](nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sl.With(func(v *[]int) { *v = append(*v, 1) })
	}()
	go func() {
		defer wg.Done()
		g := sl.Lock()
		defer g.Unlock()
		v := g.Value()
		*v = append(*v, 2)
		*v = append(*v, 2)
	}()
	wg.Wait()

	got := sl.Lock().Get()
	if !assert.ObjectsAreEqual([]int{1, 2, 2}, got) && !assert.ObjectsAreEqual([]int{2, 2, 1}, got) {
		t.Fatalf("unexpected interleaving %v", got)
	}
}

func TestSpinLockTryLock(t *testing.T) {
	sl := NewSpinLock("a")

	g, ok := sl.TryLock()
	require.True(t, ok)

	_, ok = sl.TryLock()
	require.False(t, ok, "TryLock must fail while the lock is held")

	g.Set("b")
	g.Unlock()

	g, ok = sl.TryLock()
	require.True(t, ok)
	assert.Equal(t, "b", g.Get())
	g.Unlock()
}

func TestSpinLockGuardReleased(t *testing.T) {
	sl := NewSpinLock(1)
	g := sl.Lock()
	g.Unlock()

	// double unlock is a no-op and must not release somebody else's lock
	other := sl.Lock()
	g.Unlock()
	_, ok := sl.TryLock()
	assert.False(t, ok)
	other.Unlock()

	assert.PanicsWithValue(t, ErrGuardReleased, func() { g.Get() })
	assert.PanicsWithValue(t, ErrGuardReleased, func() { g.Set(2) })
	assert.PanicsWithValue(t, ErrGuardReleased, func() { _ = g.Value() })
}

func TestSpinLockWithPanicReleases(t *testing.T) {
	sl := NewSpinLock(0)

	require.Panics(t, func() {
		sl.With(func(v *int) {
			*v = 7
			panic("boom")
		})
	})

	g, ok := sl.TryLock()
	require.True(t, ok, "lock must be released after a panic in With")
	assert.Equal(t, 7, g.Get())
	g.Unlock()
}

func TestSpinLockStatsContended(t *testing.T) {
	sl := NewSpinLock(0)
	g := sl.Lock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		sl.With(func(v *int) { *v++ })
	}()

	// wait until the second Lock is observed spinning
	for sl.Stats().Contended == 0 {
		select {
		case <-done:
			t.Fatalf("Lock returned while the lock was held")
		default:
		}
	}
	g.Unlock()
	<-done

	st := sl.Stats()
	assert.Equal(t, uint64(2), st.Acquisitions)
	assert.Equal(t, uint64(1), st.Contended)
}

func BenchmarkSpinLock(b *testing.B) {
	sl := NewSpinLock(0)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			g := sl.Lock()
			*g.Value()++
			g.Unlock()
		}
	})
}

func BenchmarkMutex(b *testing.B) {
	var mu sync.Mutex
	var v int
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mu.Lock()
			v++
			mu.Unlock()
		}
	})
}
