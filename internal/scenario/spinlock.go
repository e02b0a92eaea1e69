package scenario

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/aradilov/syncx"
)

func init() {
	register("spinlock-slice", "two goroutines append to a spin-locked slice", SpinLockSlice)
	register("spinlock-counter", "goroutines increment a spin-locked counter", SpinLockCounter)
}

// SpinLockSlice appends 1 from one goroutine and 2, 2 from another under the
// same lock. Each critical section must stay contiguous.
func SpinLockSlice(ctx context.Context, _ Config) (err error) {
	defer mon.Task()(&ctx)(&err)

	sl := syncx.NewSpinLock[[]int](nil)

	var g errgroup.Group
	g.Go(func() error {
		sl.With(func(v *[]int) { *v = append(*v, 1) })
		return nil
	})
	g.Go(func() error {
		guard := sl.Lock()
		defer guard.Unlock()
		v := guard.Value()
		*v = append(*v, 2)
		*v = append(*v, 2)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	guard := sl.Lock()
	defer guard.Unlock()
	got := guard.Get()
	if !slices.Equal(got, []int{1, 2, 2}) && !slices.Equal(got, []int{2, 2, 1}) {
		return violation("interleaved critical sections: %v", got)
	}
	return nil
}

// SpinLockCounter has cfg.Threads goroutines each increment a shared counter
// cfg.Iterations times. The result must be exactly Threads*Iterations.
func SpinLockCounter(ctx context.Context, cfg Config) (err error) {
	defer mon.Task()(&ctx)(&err)

	sl := syncx.NewSpinLock(0)

	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < cfg.Threads; t++ {
		g.Go(func() error {
			for i := 0; i < cfg.Iterations; i++ {
				if i%1024 == 0 && gctx.Err() != nil {
					return gctx.Err()
				}
				guard := sl.Lock()
				*guard.Value()++
				guard.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	st := sl.Stats()
	mon.IntVal("spinlock_contended").Observe(int64(st.Contended))
	mon.IntVal("spinlock_spins").Observe(int64(st.Spins))

	want := cfg.Threads * cfg.Iterations
	guard := sl.Lock()
	defer guard.Unlock()
	if got := guard.Get(); got != want {
		return violation("counter is %d, want %d", got, want)
	}
	return nil
}
