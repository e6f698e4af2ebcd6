// Package telemetry collects frame timing for the renderer and exports it.
package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one driver tick.
const (
	PhaseSurface   = "surface"
	PhaseParticles = "particles"
	PhaseRipples   = "ripples"
	PhaseRender    = "render"
)

// Phases lists the tick phases in execution order.
var Phases = []string{PhaseSurface, PhaseParticles, PhaseRipples, PhaseRender}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks frame timing over a rolling window. Each ring slot
// owns its phase map, so recording does not allocate once the window is full.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int
	ticks       uint64

	tickStart  time.Time
	phaseStart time.Time
	lastPhase  string

	lastFrameTime time.Time
	frameDuration time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (e.g. 60 for one second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	samples := make([]PerfSample, windowSize)
	for i := range samples {
		samples[i].Phases = make(map[string]time.Duration, len(Phases))
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    samples,
		now:        time.Now,
	}
}

// StartTick begins timing a driver tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.lastPhase = ""
	clear(p.samples[p.writeIndex].Phases)
}

// StartPhase ends the running phase, if any, and begins timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	if p.lastPhase != "" {
		p.samples[p.writeIndex].Phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes the current tick and commits its sample.
func (p *PerfCollector) EndTick() {
	now := p.now()
	s := &p.samples[p.writeIndex]
	if p.lastPhase != "" {
		s.Phases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}
	s.TickDuration = now.Sub(p.tickStart)

	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.ticks++
}

// RecordFrame records the time between consecutive display refreshes.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// Ticks returns the number of ticks recorded since creation.
func (p *PerfCollector) Ticks() uint64 { return p.ticks }

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Work per tick: simulation update plus render submission
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total tick time
	PhasePct map[string]float64

	// Ticks per second the work alone would allow
	TicksPerSecond float64

	// Refresh timing
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
	}

	var totalTick time.Duration
	var minTick, maxTick time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.TickDuration

		if i == 0 || s.TickDuration < minTick {
			minTick = s.TickDuration
		}
		if s.TickDuration > maxTick {
			maxTick = s.TickDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgTick := totalTick / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration, len(phaseSum))
	phasePct := make(map[string]float64, len(phaseSum))
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgTick > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgTick) * 100
		}
	}

	var ticksPerSec float64
	if avgTick > 0 {
		ticksPerSec = float64(time.Second) / float64(avgTick)
	}

	return PerfStats{
		AvgTickDuration: avgTick,
		MinTickDuration: minTick,
		MaxTickDuration: maxTick,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		TicksPerSecond:  ticksPerSec,
		FrameDuration:   p.frameDuration,
		FPS:             fps,
	}
}

// LogValue implements slog.LogValuer for structured logging. Phases are
// emitted in execution order; phases under 0.1% are omitted.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Frame        uint64  `csv:"frame"`
	Elapsed      float64 `csv:"elapsed_s"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SurfacePct   float64 `csv:"surface_pct"`
	ParticlesPct float64 `csv:"particles_pct"`
	RipplesPct   float64 `csv:"ripples_pct"`
	RenderPct    float64 `csv:"render_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(frame uint64, elapsed float64) PerfStatsCSV {
	return PerfStatsCSV{
		Frame:        frame,
		Elapsed:      elapsed,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SurfacePct:   s.PhasePct[PhaseSurface],
		ParticlesPct: s.PhasePct[PhaseParticles],
		RipplesPct:   s.PhasePct[PhaseRipples],
		RenderPct:    s.PhasePct[PhaseRender],
	}
}
