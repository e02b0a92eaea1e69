package syncx

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	name string
	n    int
}

func TestArcWeakUpgrade(t *testing.T) {
	var drops atomic.Int32
	x := NewArc(pair{name: "hello"}, func(pair) { drops.Add(1) })
	y := x.Downgrade()
	z := x.Downgrade()

	done := make(chan struct{})
	go func() {
		defer close(done)
		a, ok := y.Upgrade()
		if !ok {
			t.Errorf("upgrade failed while an Arc is alive")
			return
		}
		defer a.Release()
		if a.Value().name != "hello" {
			t.Errorf("expected hello, got %q", a.Value().name)
		}
	}()

	assert.Equal(t, "hello", x.Value().name)
	<-done

	assert.Zero(t, drops.Load())
	a, ok := z.Upgrade()
	require.True(t, ok)
	a.Release()

	x.Release()
	assert.Equal(t, int32(1), drops.Load())

	_, ok = z.Upgrade()
	assert.False(t, ok, "upgrade must fail after the last Arc is released")
	y.Release()
	z.Release()
}

func TestArcReleaseOnce(t *testing.T) {
	const clones = 64

	var drops atomic.Int32
	root := NewArc(1, func(int) { drops.Add(1) })

	handles := make([]*Arc[int], clones)
	for i := range handles {
		handles[i] = root.Clone()
	}
	assert.Equal(t, int64(clones+1), root.StrongCount())

	var wg sync.WaitGroup
	wg.Add(clones)
	for _, h := range handles {
		go func() {
			defer wg.Done()
			h.Release()
			h.Release() // idempotent per handle
		}()
	}
	wg.Wait()

	assert.Zero(t, drops.Load())
	root.Release()
	assert.Equal(t, int32(1), drops.Load())
	assert.PanicsWithValue(t, ErrArcReleased, func() { root.Value() })
}

func TestArcGetMut(t *testing.T) {
	a := NewArc(pair{n: 1}, nil)

	p, ok := a.GetMut()
	require.True(t, ok)
	p.n = 2
	assert.Equal(t, 2, a.Value().n)

	b := a.Clone()
	_, ok = a.GetMut()
	assert.False(t, ok, "GetMut must fail with two Arcs")
	b.Release()

	w := a.Downgrade()
	assert.Equal(t, int64(1), a.WeakCount())
	_, ok = a.GetMut()
	assert.False(t, ok, "GetMut must fail while a Weak exists")
	w.Release()
	assert.Zero(t, a.WeakCount())

	_, ok = a.GetMut()
	assert.True(t, ok)
	a.Release()
}

func TestArcConcurrentUpgrade(t *testing.T) {
	const workers = 16

	var drops atomic.Int32
	a := NewArc("v", func(string) { drops.Add(1) })
	weaks := make([]*Weak[string], workers)
	for i := range weaks {
		weaks[i] = a.Downgrade()
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for _, w := range weaks {
		go func() {
			defer wg.Done()
			defer w.Release()
			for i := 0; i < 1000; i++ {
				s, ok := w.Upgrade()
				if !ok {
					return
				}
				if s.Value() != "v" {
					t.Errorf("unexpected value %q", s.Value())
				}
				s.Release()
			}
		}()
	}
	a.Release()
	wg.Wait()

	assert.Equal(t, int32(1), drops.Load())
	assert.Zero(t, a.StrongCount())
}
