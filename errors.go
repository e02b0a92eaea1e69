package syncx

import "fmt"

var (
	// ErrGuardReleased is the panic value for access through a released Guard.
	ErrGuardReleased = fmt.Errorf("syncx: guard already released")

	// ErrAlreadySent is returned by Send on a sender that was already used
	// (sent or closed).
	ErrAlreadySent = fmt.Errorf("oneshot: sender already used")
	// ErrNotReady is returned by TryReceive while no value has been sent.
	ErrNotReady = fmt.Errorf("oneshot: value not ready")
	// ErrConsumed is returned once the value has been taken or the receiver closed.
	ErrConsumed = fmt.Errorf("oneshot: value already consumed")
	// ErrDisconnected reports that the other side was dropped: the sender
	// without sending, or the receiver before the value arrived.
	ErrDisconnected = fmt.Errorf("oneshot: disconnected")

	// ErrArcReleased is the panic value for access through a released Arc.
	ErrArcReleased = fmt.Errorf("arc: handle already released")
)
