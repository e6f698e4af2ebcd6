package scene

import (
	"testing"
	"time"
)

func TestFrameQueueRunsOnce(t *testing.T) {
	q := NewFrameQueue(800, 600)

	var calls []int
	q.RequestFrame(func() { calls = append(calls, 1) })
	q.RequestFrame(func() {
		calls = append(calls, 2)
		// Requested during a frame: runs next frame.
		q.RequestFrame(func() { calls = append(calls, 3) })
	})

	if n := q.RunFrame(); n != 2 {
		t.Errorf("expected 2 callbacks run, got %d", n)
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("expected [1 2], got %v", calls)
	}
	if q.Pending() != 1 {
		t.Errorf("expected 1 pending, got %d", q.Pending())
	}

	q.RunFrame()
	q.RunFrame()
	if len(calls) != 3 || calls[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", calls)
	}
}

func TestFrameQueueCancel(t *testing.T) {
	q := NewFrameQueue(800, 600)

	ran := 0
	h := q.RequestFrame(func() { ran++ })
	q.CancelFrame(h)
	q.CancelFrame(h)
	q.CancelFrame(12345)

	q.RunFrame()
	if ran != 0 {
		t.Errorf("cancelled callback ran %d times", ran)
	}

	// Cancelled by an earlier callback in the same batch.
	var second FrameHandle
	q.RequestFrame(func() { q.CancelFrame(second) })
	second = q.RequestFrame(func() { ran++ })
	if n := q.RunFrame(); n != 1 || ran != 0 {
		t.Errorf("expected in-batch cancel to skip the callback, ran=%d n=%d", ran, n)
	}
}

func TestFrameQueueResize(t *testing.T) {
	q := NewFrameQueue(800, 600)

	var got []Viewport
	unsubscribe := q.OnResize(func(w, h int) { got = append(got, Viewport{w, h}) })

	q.SetSize(800, 600) // unchanged
	q.SetSize(1024, 768)
	if len(got) != 1 || got[0] != (Viewport{1024, 768}) {
		t.Errorf("expected one notification for 1024x768, got %v", got)
	}
	if q.Size() != (Viewport{1024, 768}) {
		t.Errorf("unexpected size %v", q.Size())
	}

	unsubscribe()
	unsubscribe()
	q.SetSize(640, 480)
	if len(got) != 1 || q.Listeners() != 0 {
		t.Errorf("expected no notifications after unsubscribe, got %v", got)
	}
}

func TestHostOnFrameQueue(t *testing.T) {
	q := NewFrameQueue(1280, 720)
	clock := &fakeClock{}
	backend := &fakeBackend{}
	host := NewHost(testHostConfig(), Env{
		Backend:   backend,
		Scheduler: q,
		Clock:     clock,
		Resize:    q,
	})

	if err := host.Mount(q.Size(), defaultOptions()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	for i := 0; i < 10; i++ {
		clock.advance(16 * time.Millisecond)
		q.RunFrame()
	}
	q.SetSize(640, 640)

	if backend.current().renders != 10 {
		t.Errorf("expected 10 renders, got %d", backend.current().renders)
	}
	if host.Stats().Aspect != 1 {
		t.Errorf("expected aspect 1 after window resize, got %v", host.Stats().Aspect)
	}

	host.Unmount()
	if q.Pending() != 0 || q.Listeners() != 0 {
		t.Errorf("unmount left %d frames and %d listeners", q.Pending(), q.Listeners())
	}
	q.RunFrame()
	if backend.current().renders != 10 {
		t.Error("rendered after unmount")
	}
}

func TestWallClockMonotonic(t *testing.T) {
	c := NewWallClock()
	a := c.Now()
	time.Sleep(time.Millisecond)
	if b := c.Now(); b <= a {
		t.Errorf("expected clock to advance, %v then %v", a, b)
	}
}
