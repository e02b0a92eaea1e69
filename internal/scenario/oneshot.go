package scenario

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/aradilov/syncx"
)

func init() {
	register("oneshot", "sender hands one value to a receiver exactly once", Oneshot)
	register("oneshot-disconnect", "receiver observes a sender dropped without sending", OneshotDisconnect)
}

// Oneshot sends "done" from another goroutine. The first receive must return
// it and a second receive must report ErrConsumed.
func Oneshot(ctx context.Context, _ Config) (err error) {
	defer mon.Task()(&ctx)(&err)

	s, r := syncx.NewOneshot[string]()

	var g errgroup.Group
	g.Go(func() error { return s.Send("done") })

	v, err := r.Receive()
	if err != nil {
		return err
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if v != "done" {
		return violation("received %q, want %q", v, "done")
	}
	if err := s.Send("again"); !errors.Is(err, syncx.ErrAlreadySent) {
		return violation("second send returned %v", err)
	}
	if v, err := r.TryReceive(); !errors.Is(err, syncx.ErrConsumed) {
		return violation("second receive returned %q, %v", v, err)
	}
	return nil
}

// OneshotDisconnect closes the sender while the receiver is blocked. The
// receiver must wake up with ErrDisconnected.
func OneshotDisconnect(ctx context.Context, _ Config) (err error) {
	defer mon.Task()(&ctx)(&err)

	s, r := syncx.NewOneshot[int]()

	var g errgroup.Group
	g.Go(func() error {
		if _, err := r.Receive(); !errors.Is(err, syncx.ErrDisconnected) {
			return violation("receive returned %v, want %v", err, syncx.ErrDisconnected)
		}
		return nil
	})
	s.Close()
	return g.Wait()
}
