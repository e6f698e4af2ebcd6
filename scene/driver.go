package scene

import (
	"image/color"
	"time"

	"github.com/pthm-cable/riverbed/camera"
	"github.com/pthm-cable/riverbed/telemetry"
)

// Profiler receives per-frame phase timings. telemetry.PerfCollector
// implements it.
type Profiler interface {
	RecordFrame()
	StartTick()
	StartPhase(name string)
	EndTick()
}

// DriverOptions controls frame pacing and how the mount options apply.
type DriverOptions struct {
	// ReferenceFPS converts wall time to simulation steps: one second is
	// ReferenceFPS steps. Particle and ripple speeds are per step.
	ReferenceFPS float64
	// MaxFrameStep caps a single step, so a stalled or hidden window resumes
	// smoothly instead of jumping. Zero means no cap.
	MaxFrameStep float64
	Intensity    float64
	Tint         color.RGBA
}

// Driver advances the Layers once per display refresh and renders them.
// All methods must be called from the scheduler's thread.
type Driver struct {
	layers   Layers
	cam      *camera.Camera
	surface  Surface
	sched    Scheduler
	clock    Clock
	opts     DriverOptions
	profiler Profiler
	onError  func(error)

	// gen is bumped on every Start, Cancel and failure. A callback only
	// runs if it was scheduled under the current generation.
	gen     uint64
	handle  FrameHandle
	running bool

	start   time.Duration
	last    time.Duration
	elapsed float64
	frames  uint64
	err     error
}

// NewDriver creates a stopped driver for layers drawn on surface.
func NewDriver(layers Layers, cam *camera.Camera, surface Surface, sched Scheduler, clock Clock, opts DriverOptions) *Driver {
	if opts.ReferenceFPS <= 0 {
		opts.ReferenceFPS = 60
	}
	return &Driver{
		layers:  layers,
		cam:     cam,
		surface: surface,
		sched:   sched,
		clock:   clock,
		opts:    opts,
	}
}

// SetProfiler installs a phase timer. Pass nil to disable.
func (d *Driver) SetProfiler(p Profiler) { d.profiler = p }

// OnError registers fn to be called once when rendering fails.
func (d *Driver) OnError(fn func(error)) { d.onError = fn }

// Start records the start time and requests the first frame. It does nothing
// if the driver is running or has stopped on a render error.
func (d *Driver) Start() {
	if d.running || d.err != nil {
		return
	}
	d.gen++
	d.running = true
	d.start = d.clock.Now()
	d.last = d.start
	d.elapsed = 0
	d.schedule()
}

// Cancel stops the loop. A callback that was already handed to the scheduler
// returns without touching any layer if it still fires.
func (d *Driver) Cancel() {
	d.gen++
	d.running = false
	if d.handle != 0 {
		d.sched.CancelFrame(d.handle)
		d.handle = 0
	}
}

func (d *Driver) schedule() {
	gen := d.gen
	d.handle = d.sched.RequestFrame(func() { d.tick(gen) })
}

func (d *Driver) tick(gen uint64) {
	if gen != d.gen || !d.running {
		return
	}
	d.handle = 0

	if d.profiler != nil {
		d.profiler.RecordFrame()
		d.profiler.StartTick()
	}

	now := d.clock.Now()
	d.elapsed = (now - d.start).Seconds()
	step := d.step(now - d.last)
	d.last = now

	d.phase(telemetry.PhaseSurface)
	d.layers.Mesh.Update(d.elapsed)

	d.phase(telemetry.PhaseParticles)
	d.layers.Particles.Advance(float32(step * d.opts.Intensity))

	if d.layers.Ripples != nil {
		d.phase(telemetry.PhaseRipples)
		d.layers.Ripples.Advance(float32(step), float32(d.opts.Intensity))
	}

	d.phase(telemetry.PhaseRender)
	err := d.surface.Render(Frame{
		Index:     d.frames,
		Elapsed:   d.elapsed,
		View:      d.cam.At(d.elapsed),
		Tint:      d.opts.Tint,
		Intensity: d.opts.Intensity,
	})

	if d.profiler != nil {
		d.profiler.EndTick()
	}

	if err != nil {
		d.fail(err)
		return
	}
	d.frames++
	d.schedule()
}

// step converts a wall-clock delta to reference frames, clamped to
// [0, MaxFrameStep].
func (d *Driver) step(delta time.Duration) float64 {
	s := delta.Seconds() * d.opts.ReferenceFPS
	if s < 0 {
		return 0
	}
	if d.opts.MaxFrameStep > 0 && s > d.opts.MaxFrameStep {
		return d.opts.MaxFrameStep
	}
	return s
}

func (d *Driver) phase(name string) {
	if d.profiler != nil {
		d.profiler.StartPhase(name)
	}
}

// fail stops the loop for good. Surfaces are never retried.
func (d *Driver) fail(err error) {
	d.gen++
	d.running = false
	d.err = err
	Logger().Warn("scene: render failed, driver stopped", "err", err, "frame", d.frames)
	if d.onError != nil {
		d.onError(err)
	}
}

// Running reports whether frames are being scheduled.
func (d *Driver) Running() bool { return d.running }

// Err returns the render error that stopped the driver, if any.
func (d *Driver) Err() error { return d.err }

// Frames returns the number of frames rendered successfully.
func (d *Driver) Frames() uint64 { return d.frames }

// Elapsed returns seconds since Start as of the last frame.
func (d *Driver) Elapsed() float64 { return d.elapsed }
