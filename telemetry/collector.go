package telemetry

import "time"

// Sample is the scene state the collector reads once per frame.
type Sample struct {
	Elapsed   float64 // scene seconds since mount
	Frames    uint64
	Recycled  uint64
	Particles int
	Ripples   int // active rings
	Width     int
	Height    int
}

// Collector accumulates per-frame samples within time windows and produces
// WindowStats. Windows are measured on the wall clock, so they close even
// when no scene is running.
type Collector struct {
	windowDurationSec float64

	started   bool
	wallStart time.Duration
	lastWall  time.Duration

	// Current window tracking
	windowStart   float64
	startFrame    uint64
	startRecycled uint64

	frameMS    []float64
	rippleSum  int
	rippleMax  int
	sampleSize int
}

// NewCollector creates a new stats collector. Windows shorter than one
// second are raised to one second.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec < 1 {
		windowDurationSec = 1
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// Record adds one presented frame observed at wall time now.
func (c *Collector) Record(s Sample, now time.Duration) {
	switch {
	case !c.started:
		c.started = true
		c.lastWall = now
		c.reset(s, now)
	case s.Elapsed < c.windowStart || s.Frames < c.startFrame:
		// A remount restarts the scene clock; start a fresh window.
		c.reset(s, now)
	}

	if interval := now - c.lastWall; interval > 0 {
		c.frameMS = append(c.frameMS, float64(interval)/float64(time.Millisecond))
	}
	c.lastWall = now
	c.rippleSum += s.Ripples
	if s.Ripples > c.rippleMax {
		c.rippleMax = s.Ripples
	}
	c.sampleSize++
}

// ShouldFlush reports whether the current window has run its full duration
// at wall time now.
func (c *Collector) ShouldFlush(now time.Duration) bool {
	return c.started && (now-c.wallStart).Seconds() >= c.windowDurationSec
}

// Flush closes the current window at s and wall time now, and starts the
// next one.
func (c *Collector) Flush(s Sample, now time.Duration) WindowStats {
	out := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   s.Elapsed,
		Frame:       s.Frames,
		Particles:   s.Particles,
		Width:       s.Width,
		Height:      s.Height,
		RipplesMax:  c.rippleMax,
	}
	if s.Frames >= c.startFrame {
		out.Frames = s.Frames - c.startFrame
	}
	if s.Recycled >= c.startRecycled {
		out.Recycled = s.Recycled - c.startRecycled
	}
	if span := (now - c.wallStart).Seconds(); span > 0 {
		out.RecycleRate = float64(out.Recycled) / span
	}
	if c.sampleSize > 0 {
		out.RipplesMean = float64(c.rippleSum) / float64(c.sampleSize)
	}
	out.FrameMSMean, out.FrameMSP50, out.FrameMSP95, out.FrameMSMax = ComputeFrameStats(c.frameMS)

	c.reset(s, now)
	return out
}

// WindowDurationSec returns the configured window length.
func (c *Collector) WindowDurationSec() float64 {
	return c.windowDurationSec
}

func (c *Collector) reset(s Sample, now time.Duration) {
	c.wallStart = now
	c.windowStart = s.Elapsed
	c.startFrame = s.Frames
	c.startRecycled = s.Recycled
	c.frameMS = c.frameMS[:0]
	c.rippleSum = 0
	c.rippleMax = 0
	c.sampleSize = 0
}
