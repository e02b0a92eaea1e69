package scenario

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/aradilov/syncx"
)

func init() {
	register("arc", "weak handles upgrade until the last strong handle is released", Arc)
}

// Arc shares a value between goroutines through weak handles. The release
// callback must run once, after the last strong handle, and weak upgrades must
// fail afterwards.
func Arc(ctx context.Context, cfg Config) (err error) {
	defer mon.Task()(&ctx)(&err)

	var released atomic.Int32
	x := syncx.NewArc("hello", func(string) { released.Add(1) })

	weaks := make([]*syncx.Weak[string], cfg.Threads)
	for i := range weaks {
		weaks[i] = x.Downgrade()
	}
	last := x.Downgrade()
	defer last.Release()

	var g errgroup.Group
	for _, w := range weaks {
		g.Go(func() error {
			defer w.Release()
			a, ok := w.Upgrade()
			if !ok {
				return violation("upgrade failed while a strong handle is alive")
			}
			defer a.Release()
			if v := a.Value(); v != "hello" {
				return violation("upgraded value %q", v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if n := released.Load(); n != 0 {
		return violation("released %d times while a strong handle is alive", n)
	}
	x.Release()
	if n := released.Load(); n != 1 {
		return violation("released %d times, want 1", n)
	}
	if _, ok := last.Upgrade(); ok {
		return violation("upgrade succeeded after release")
	}
	return nil
}
