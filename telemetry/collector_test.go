package telemetry

import (
	"math"
	"testing"
	"time"
)

// frameTime is the wall time of frame i at 60 fps.
func frameTime(i int) time.Duration {
	return time.Duration(i) * time.Second / 60
}

func TestCollector_Window(t *testing.T) {
	c := NewCollector(10)

	s := Sample{Width: 800, Height: 600, Particles: 1000}
	for i := 0; i <= 600; i++ {
		s.Frames = uint64(i)
		s.Elapsed = float64(i) / 60
		s.Recycled = uint64(i / 10)
		s.Ripples = 2
		if i == 300 {
			s.Ripples = 5
		}
		c.Record(s, frameTime(i))
		if i < 600 && c.ShouldFlush(frameTime(i)) {
			t.Fatalf("flush due early at frame %d", i)
		}
	}
	now := frameTime(600)
	if !c.ShouldFlush(now) {
		t.Fatal("flush should be due after 10s")
	}

	ws := c.Flush(s, now)
	if ws.Frames != 600 || ws.Frame != 600 {
		t.Errorf("frames = %d at %d, want 600 at 600", ws.Frames, ws.Frame)
	}
	if ws.Recycled != 60 {
		t.Errorf("recycled = %d, want 60", ws.Recycled)
	}
	if math.Abs(ws.RecycleRate-6) > 1e-9 {
		t.Errorf("recycle rate = %v, want 6", ws.RecycleRate)
	}
	wantMean := float64(601*2+3) / 601
	if math.Abs(ws.RipplesMean-wantMean) > 1e-9 || ws.RipplesMax != 5 {
		t.Errorf("ripples mean %v max %d, want %v and 5", ws.RipplesMean, ws.RipplesMax, wantMean)
	}
	if math.Abs(ws.FrameMSP50-1000.0/60) > 1e-3 || math.Abs(ws.FrameMSMax-1000.0/60) > 1e-3 {
		t.Errorf("frame ms p50 %v max %v, want %v", ws.FrameMSP50, ws.FrameMSMax, 1000.0/60)
	}
	if ws.Width != 800 || ws.Height != 600 || ws.Particles != 1000 {
		t.Errorf("unexpected sizes %+v", ws)
	}

	// The next window starts where this one ended.
	if c.ShouldFlush(now) {
		t.Error("flush should not be due right after flushing")
	}
	s.Frames++
	s.Elapsed += 1.0 / 60
	c.Record(s, frameTime(601))
	next := c.Flush(s, frameTime(601))
	if next.Frames != 1 || next.Recycled != 0 {
		t.Errorf("second window frames %d recycled %d, want 1 and 0", next.Frames, next.Recycled)
	}
}

func TestCollector_NoScene(t *testing.T) {
	c := NewCollector(2)

	// A scene that never mounted reports zero elapsed time forever.
	var s Sample
	for i := 0; i <= 120; i++ {
		c.Record(s, frameTime(i))
	}
	if !c.ShouldFlush(frameTime(120)) {
		t.Fatal("window should close on wall time without a running scene")
	}
	ws := c.Flush(s, frameTime(120))
	if ws.Frames != 0 || ws.Recycled != 0 {
		t.Errorf("frames %d recycled %d, want 0 and 0", ws.Frames, ws.Recycled)
	}
	if math.Abs(ws.FrameMSMean-1000.0/60) > 1e-3 {
		t.Errorf("frame ms mean = %v, want %v", ws.FrameMSMean, 1000.0/60)
	}
}

func TestCollector_NotStarted(t *testing.T) {
	c := NewCollector(1)
	if c.ShouldFlush(time.Hour) {
		t.Error("flush should not be due before the first frame")
	}
}

func TestCollector_Remount(t *testing.T) {
	c := NewCollector(5)

	s := Sample{Frames: 300, Elapsed: 5, Recycled: 40}
	c.Record(s, 5*time.Second)
	c.Flush(s, 5*time.Second)

	// The scene was remounted; counters restart from zero.
	now := 5*time.Second + 30*time.Millisecond
	s = Sample{Frames: 2, Elapsed: 0.03, Recycled: 1}
	c.Record(s, now)
	if c.ShouldFlush(now) {
		t.Error("a fresh mount should start a fresh window")
	}
	ws := c.Flush(s, now)
	if ws.Frames != 0 || ws.Recycled != 0 {
		t.Errorf("remount window frames %d recycled %d, want 0 and 0", ws.Frames, ws.Recycled)
	}
}

func TestCollector_MinimumWindow(t *testing.T) {
	if got := NewCollector(0).WindowDurationSec(); got != 1 {
		t.Errorf("window = %v, want 1", got)
	}
}
