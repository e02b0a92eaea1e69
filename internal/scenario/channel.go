package scenario

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/aradilov/syncx"
)

func init() {
	register("channel-fifo", "one sender, one receiver, order preserved", ChannelFIFO)
	register("channel-fan-in", "many senders, one receiver, nothing lost or duplicated", ChannelFanIn)
}

// ChannelFIFO sends 1..cfg.Messages from one goroutine and receives them in
// another. Values must arrive in send order.
func ChannelFIFO(ctx context.Context, cfg Config) (err error) {
	defer mon.Task()(&ctx)(&err)

	c := syncx.NewChannel[int]()

	var g errgroup.Group
	g.Go(func() error {
		for i := 1; i <= cfg.Messages; i++ {
			c.Send(i)
		}
		return nil
	})
	g.Go(func() error {
		for want := 1; want <= cfg.Messages; want++ {
			if got := c.Receive(); got != want {
				return violation("received %d, want %d", got, want)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	mon.IntVal("channel_waits").Observe(int64(c.Stats().Waits))
	return nil
}

// ChannelFanIn has cfg.Messages goroutines each send one distinct value. A
// single receiver must see every value exactly once.
func ChannelFanIn(ctx context.Context, cfg Config) (err error) {
	defer mon.Task()(&ctx)(&err)

	c := syncx.NewChannel[int]()

	var g errgroup.Group
	g.SetLimit(cfg.Threads + 1)

	seen := make([]int, cfg.Messages)
	done := make(chan error, 1)
	go func() {
		for i := 0; i < cfg.Messages; i++ {
			v := c.Receive()
			if v < 0 || v >= cfg.Messages {
				done <- violation("out-of-range value %d", v)
				return
			}
			seen[v]++
		}
		done <- nil
	}()

	for i := 0; i < cfg.Messages; i++ {
		g.Go(func() error {
			c.Send(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := <-done; err != nil {
		return err
	}

	for v, n := range seen {
		if n != 1 {
			return violation("value %d received %d times", v, n)
		}
	}
	return nil
}
