// Package scene owns the animated background: the per-frame driver and the
// host that mounts, resizes and tears it down.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/riverbed/camera"
	"github.com/pthm-cable/riverbed/config"
	"github.com/pthm-cable/riverbed/systems"
	"github.com/pthm-cable/riverbed/telemetry"
)

// HostConfig holds everything a mount needs besides the mount options.
type HostConfig struct {
	Surface      systems.SurfaceParams
	Bounds       systems.Bounds
	Particles    systems.ParticleOptions
	Ripples      systems.RippleOptions
	Camera       camera.Params
	Limits       config.Limits
	ReferenceFPS float64
	MaxFrameStep float64
}

// HostConfigFrom extracts a HostConfig from loaded configuration.
func HostConfigFrom(c *config.Config) HostConfig {
	return HostConfig{
		Surface:      c.Derived.Surface,
		Bounds:       c.Derived.Bounds,
		Particles:    c.Derived.Particles,
		Ripples:      c.Derived.Ripples,
		Camera:       c.Camera,
		Limits:       c.Limits,
		ReferenceFPS: c.Driver.ReferenceFPS,
		MaxFrameStep: c.Driver.MaxFrameStep,
	}
}

// Env is the host environment a Host draws into.
type Env struct {
	Backend   Backend
	Scheduler Scheduler
	Clock     Clock
	Resize    ResizeNotifier // optional
	Source    systems.Source // optional, defaults to a time-seeded source
	Profiler  Profiler       // optional
}

// Host is the lifecycle owner of one background instance. It holds every
// scene reference; nothing is global. Methods must be called from the
// scheduler's thread.
type Host struct {
	cfg HostConfig
	env Env

	state State
	err   error
	vp    Viewport
	opts  config.Options

	layers      Layers
	cam         *camera.Camera
	surface     Surface
	driver      *Driver
	unsubscribe func()
}

// NewHost creates an unmounted host.
func NewHost(cfg HostConfig, env Env) *Host {
	if env.Source == nil {
		env.Source = systems.NewRandSource(time.Now().UnixNano())
	}
	return &Host{cfg: cfg, env: env}
}

// Mount builds the scene for vp and starts the driver. It is valid from
// Unmounted and Failed. Options outside Limits are clamped and logged.
//
// If the surface cannot be opened the host moves to Failed and the returned
// error wraps ErrSurfaceUnavailable. Nothing is drawn until the next Mount.
func (h *Host) Mount(vp Viewport, opts config.Options) error {
	if !h.state.canMount() {
		return fmt.Errorf("%w: mount while %s", ErrInvalidState, h.state)
	}
	if !vp.Valid() {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, vp.Width, vp.Height)
	}
	h.release()

	log := Logger()
	opts, err := opts.Normalize(h.cfg.Limits)
	if err != nil {
		log.Warn("scene: mount options adjusted", "err", err)
	}

	h.state = Initializing
	h.err = nil
	h.vp = vp
	h.opts = opts

	mesh, err := systems.NewSurfaceMesh(h.cfg.Surface)
	if err != nil {
		return h.fail(fmt.Errorf("building surface mesh: %w", err))
	}
	layers := Layers{
		Mesh:      mesh,
		Particles: systems.NewParticleField(opts.ParticleCount, h.cfg.Bounds, h.env.Source, h.cfg.Particles),
	}
	if h.cfg.Ripples.Capacity > 0 {
		layers.Ripples = systems.NewRippleField(vp.Width, vp.Height, h.env.Source, h.cfg.Ripples)
	}
	cam := camera.New(h.cfg.Camera, vp.Width, vp.Height)

	surface, err := h.env.Backend.Open(vp, layers)
	if err != nil {
		if !errors.Is(err, ErrSurfaceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrSurfaceUnavailable, err)
		}
		return h.fail(err)
	}

	h.layers = layers
	h.cam = cam
	h.surface = surface
	if h.env.Resize != nil {
		h.unsubscribe = h.env.Resize.OnResize(h.Resize)
	}

	h.driver = NewDriver(layers, cam, surface, h.env.Scheduler, h.env.Clock, DriverOptions{
		ReferenceFPS: h.cfg.ReferenceFPS,
		MaxFrameStep: h.cfg.MaxFrameStep,
		Intensity:    opts.Intensity,
		Tint:         opts.Tint(),
	})
	h.driver.SetProfiler(h.env.Profiler)
	h.driver.OnError(h.driverFailed)

	h.state = Running
	h.driver.Start()

	log.Info("scene: mounted",
		"width", vp.Width,
		"height", vp.Height,
		"vertices", mesh.VertexCount(),
		"particles", layers.Particles.Len(),
	)
	return nil
}

func (h *Host) fail(err error) error {
	h.err = err
	h.state = Failed
	h.layers = Layers{}
	h.cam = nil
	Logger().Warn("scene: initialization failed, rendering nothing", "err", err)
	return err
}

// driverFailed runs inside the frame callback when Render returns an error.
func (h *Host) driverFailed(err error) {
	if h.state != Running {
		return
	}
	h.err = err
	h.state = Failed
}

// Resize updates the surface size, camera aspect and ripple area. Geometry
// is not rebuilt. Calls outside Running and non-positive sizes are ignored.
func (h *Host) Resize(width, height int) {
	if h.state != Running {
		return
	}
	vp := Viewport{Width: width, Height: height}
	if !vp.Valid() || vp == h.vp {
		return
	}
	h.vp = vp
	h.surface.Resize(vp)
	h.cam.Resize(width, height)
	if h.layers.Ripples != nil {
		h.layers.Ripples.Resize(width, height)
	}
	Logger().Debug("scene: resized", "width", width, "height", height, "aspect", h.cam.Aspect())
}

// Unmount cancels the driver, removes the resize listener and releases the
// surface. It is idempotent.
func (h *Host) Unmount() {
	switch h.state {
	case Unmounted, TearingDown:
		return
	}
	h.state = TearingDown
	h.release()
	h.state = Unmounted
	Logger().Info("scene: unmounted")
}

// release drops every resource the host holds. Each step clears its
// reference so a second call does nothing.
func (h *Host) release() {
	if h.driver != nil {
		h.driver.Cancel()
		h.driver = nil
	}
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
	if h.surface != nil {
		h.surface.Release()
		h.surface = nil
	}
	h.layers = Layers{}
	h.cam = nil
}

// State returns the lifecycle state.
func (h *Host) State() State { return h.state }

// Err returns the error that moved the host to Failed, if any.
func (h *Host) Err() error { return h.err }

// Options returns the normalized options of the current mount.
func (h *Host) Options() config.Options { return h.opts }

// Layers returns the live simulation buffers. They are empty unless mounted.
func (h *Host) Layers() Layers { return h.layers }

// Stats is a snapshot of the host for logging and overlays.
type Stats struct {
	State     State
	Viewport  Viewport
	Aspect    float64
	Vertices  int
	Triangles int
	Particles int
	Recycled  uint64
	Ripples   int // active rings
	Frames    uint64
	Elapsed   float64
	Err       error
}

// Stats returns a snapshot of the current mount.
func (h *Host) Stats() Stats {
	s := Stats{State: h.state, Viewport: h.vp, Err: h.err}
	if h.cam != nil {
		s.Aspect = h.cam.Aspect()
	}
	if h.layers.Mesh != nil {
		s.Vertices = h.layers.Mesh.VertexCount()
		s.Triangles = h.layers.Mesh.TriangleCount()
	}
	if h.layers.Particles != nil {
		s.Particles = h.layers.Particles.Len()
		s.Recycled = h.layers.Particles.Recycled()
	}
	if h.layers.Ripples != nil {
		s.Ripples = h.layers.Ripples.ActiveCount()
	}
	if h.driver != nil {
		s.Frames = h.driver.Frames()
		s.Elapsed = h.driver.Elapsed()
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("state", s.State.String()),
		slog.Int("width", s.Viewport.Width),
		slog.Int("height", s.Viewport.Height),
		slog.Int("vertices", s.Vertices),
		slog.Int("particles", s.Particles),
		slog.Uint64("recycled", s.Recycled),
		slog.Int("ripples", s.Ripples),
		slog.Uint64("frames", s.Frames),
		slog.Float64("elapsed", s.Elapsed),
	}
	if s.Err != nil {
		attrs = append(attrs, slog.String("err", s.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

// Sample converts s for a telemetry.Collector.
func (s Stats) Sample() telemetry.Sample {
	return telemetry.Sample{
		Elapsed:   s.Elapsed,
		Frames:    s.Frames,
		Recycled:  s.Recycled,
		Particles: s.Particles,
		Ripples:   s.Ripples,
		Width:     s.Viewport.Width,
		Height:    s.Viewport.Height,
	}
}
