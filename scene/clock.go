package scene

import "time"

// Clock reports monotonic time since an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Duration

// Now calls f.
func (f ClockFunc) Now() time.Duration { return f() }

// FrameFunc is a callback run once on the next display refresh.
type FrameFunc func()

// FrameHandle identifies a requested frame so it can be cancelled.
// The zero handle is never issued.
type FrameHandle uint64

// Scheduler runs callbacks once per display refresh, on the thread that owns
// the rendering context.
type Scheduler interface {
	// RequestFrame queues fn to run on the next refresh.
	RequestFrame(fn FrameFunc) FrameHandle
	// CancelFrame drops a queued callback. Cancelling a handle that already
	// ran, or was already cancelled, does nothing.
	CancelFrame(h FrameHandle)
}

// ResizeNotifier delivers viewport size changes.
type ResizeNotifier interface {
	// OnResize registers fn and returns a function that unregisters it.
	OnResize(fn func(width, height int)) (unsubscribe func())
}
