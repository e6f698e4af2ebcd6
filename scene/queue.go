package scene

import "time"

// FrameQueue is a Scheduler and ResizeNotifier driven by an external render
// loop: the loop calls RunFrame once per display refresh and SetSize when
// the window changes. It is not safe for concurrent use.
type FrameQueue struct {
	next    FrameHandle
	pending []queuedFrame
	running []queuedFrame // batch being run by RunFrame

	nextSub int
	subs    map[int]func(width, height int)

	width, height int
}

type queuedFrame struct {
	handle FrameHandle
	fn     FrameFunc
}

// NewFrameQueue creates an empty queue for a width x height viewport.
func NewFrameQueue(width, height int) *FrameQueue {
	return &FrameQueue{
		subs:   make(map[int]func(int, int)),
		width:  width,
		height: height,
	}
}

// RequestFrame queues fn for the next RunFrame.
func (q *FrameQueue) RequestFrame(fn FrameFunc) FrameHandle {
	q.next++
	q.pending = append(q.pending, queuedFrame{handle: q.next, fn: fn})
	return q.next
}

// CancelFrame removes a queued callback. A callback cancelled by another
// callback in the same batch does not run.
func (q *FrameQueue) CancelFrame(h FrameHandle) {
	for i, f := range q.pending {
		if f.handle == h {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	for i := range q.running {
		if q.running[i].handle == h {
			q.running[i].fn = nil
			return
		}
	}
}

// RunFrame runs every callback queued before the call, in request order.
// Callbacks requested while running wait for the next RunFrame. It returns
// the number of callbacks run.
func (q *FrameQueue) RunFrame() int {
	q.running = q.pending
	q.pending = nil
	ran := 0
	for i := range q.running {
		fn := q.running[i].fn
		if fn == nil {
			continue
		}
		q.running[i].fn = nil
		fn()
		ran++
	}
	q.running = nil
	return ran
}

// Pending returns the number of queued callbacks.
func (q *FrameQueue) Pending() int { return len(q.pending) }

// OnResize registers fn for size changes.
func (q *FrameQueue) OnResize(fn func(width, height int)) func() {
	q.nextSub++
	id := q.nextSub
	q.subs[id] = fn
	return func() { delete(q.subs, id) }
}

// Listeners returns the number of registered resize listeners.
func (q *FrameQueue) Listeners() int { return len(q.subs) }

// SetSize records a new viewport size and notifies listeners if it changed.
func (q *FrameQueue) SetSize(width, height int) {
	if width == q.width && height == q.height {
		return
	}
	q.width, q.height = width, height
	for _, fn := range q.subs {
		fn(width, height)
	}
}

// Size returns the last recorded viewport size.
func (q *FrameQueue) Size() Viewport {
	return Viewport{Width: q.width, Height: q.height}
}

// WallClock is a Clock reading monotonic time since its creation.
type WallClock struct {
	origin time.Time
}

// NewWallClock starts a clock at zero.
func NewWallClock() *WallClock {
	return &WallClock{origin: time.Now()}
}

// Now returns time elapsed since NewWallClock.
func (c *WallClock) Now() time.Duration {
	return time.Since(c.origin)
}
