package scene

import (
	"sort"
	"time"
)

// fakeScheduler queues callbacks until fire is called.
type fakeScheduler struct {
	next      FrameHandle
	pending   map[FrameHandle]FrameFunc
	requested int
	cancelled int
	last      FrameFunc // most recently requested callback, kept after it runs
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{pending: make(map[FrameHandle]FrameFunc)}
}

func (s *fakeScheduler) RequestFrame(fn FrameFunc) FrameHandle {
	s.next++
	s.pending[s.next] = fn
	s.requested++
	s.last = fn
	return s.next
}

func (s *fakeScheduler) CancelFrame(h FrameHandle) {
	if _, ok := s.pending[h]; ok {
		delete(s.pending, h)
		s.cancelled++
	}
}

// fire runs every callback queued before the call, in request order.
func (s *fakeScheduler) fire() {
	handles := make([]FrameHandle, 0, len(s.pending))
	for h := range s.pending {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	for _, h := range handles {
		fn := s.pending[h]
		delete(s.pending, h)
		fn()
	}
}

// fakeClock is advanced by hand.
type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) Now() time.Duration { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now += d }

// fakeSurface counts calls and can be told to fail.
type fakeSurface struct {
	renders   int
	releases  int
	resizes   int
	vp        Viewport
	lastFrame Frame
	renderErr error
}

func (s *fakeSurface) Render(f Frame) error {
	s.renders++
	s.lastFrame = f
	return s.renderErr
}

func (s *fakeSurface) Resize(vp Viewport) {
	s.resizes++
	s.vp = vp
}

func (s *fakeSurface) Release() { s.releases++ }

// fakeBackend hands out fakeSurfaces, or openErr if set.
type fakeBackend struct {
	opens    int
	openErr  error
	surfaces []*fakeSurface
	layers   Layers
}

func (b *fakeBackend) Open(vp Viewport, layers Layers) (Surface, error) {
	b.opens++
	if b.openErr != nil {
		return nil, b.openErr
	}
	s := &fakeSurface{vp: vp}
	b.surfaces = append(b.surfaces, s)
	b.layers = layers
	return s, nil
}

func (b *fakeBackend) current() *fakeSurface {
	if len(b.surfaces) == 0 {
		return nil
	}
	return b.surfaces[len(b.surfaces)-1]
}

// fakeNotifier records resize subscriptions.
type fakeNotifier struct {
	subs         map[int]func(int, int)
	next         int
	subscribed   int
	unsubscribed int
	lastCallback func(int, int)
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{subs: make(map[int]func(int, int))}
}

func (n *fakeNotifier) OnResize(fn func(width, height int)) func() {
	n.next++
	id := n.next
	n.subs[id] = fn
	n.subscribed++
	n.lastCallback = fn
	return func() {
		if _, ok := n.subs[id]; ok {
			delete(n.subs, id)
			n.unsubscribed++
		}
	}
}

func (n *fakeNotifier) emit(w, h int) {
	for _, fn := range n.subs {
		fn(w, h)
	}
}

// fakeProfiler counts phase calls.
type fakeProfiler struct {
	frames int
	ticks  int
	ended  int
	phases []string
}

func (p *fakeProfiler) RecordFrame()           { p.frames++ }
func (p *fakeProfiler) StartTick()             { p.ticks++ }
func (p *fakeProfiler) StartPhase(name string) { p.phases = append(p.phases, name) }
func (p *fakeProfiler) EndTick()               { p.ended++ }
