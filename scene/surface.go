package scene

import (
	"errors"
	"image/color"

	"github.com/pthm-cable/riverbed/camera"
	"github.com/pthm-cable/riverbed/systems"
)

var (
	// ErrSurfaceUnavailable is returned by Backend.Open when no rendering
	// context can be created in this environment.
	ErrSurfaceUnavailable = errors.New("rendering surface unavailable")

	// ErrSurfaceLost is returned by Surface.Render when a context that was
	// working stops being usable.
	ErrSurfaceLost = errors.New("rendering surface lost")

	// ErrInvalidState is returned for lifecycle calls made in the wrong state.
	ErrInvalidState = errors.New("invalid scene state")

	// ErrInvalidViewport is returned for a mount with a non-positive size.
	ErrInvalidViewport = errors.New("invalid viewport")
)

// Viewport is the drawable size in pixels.
type Viewport struct {
	Width, Height int
}

// Valid reports whether both dimensions are positive.
func (v Viewport) Valid() bool { return v.Width > 0 && v.Height > 0 }

// Layers are the simulation buffers a surface draws. They are owned by the
// host and mutated only by its driver.
type Layers struct {
	Mesh      *systems.SurfaceMesh
	Particles *systems.ParticleField
	Ripples   *systems.RippleField // may be nil
}

// Frame carries the per-frame values that are not stored in Layers.
type Frame struct {
	Index     uint64
	Elapsed   float64 // seconds since the driver started
	View      camera.View
	Tint      color.RGBA // particle and ripple color
	Intensity float64    // opacity multiplier for particles and ripples
}

// Surface is an opened rendering target bound to one set of Layers.
type Surface interface {
	// Render uploads the current Layers and draws one frame. A returned
	// error stops the driver for good.
	Render(f Frame) error
	// Resize changes the drawable size. Buffer sizes are unaffected.
	Resize(vp Viewport)
	// Release frees GPU-side resources. Calls after the first do nothing.
	Release()
}

// Backend creates surfaces.
type Backend interface {
	// Open allocates GPU resources sized for layers. It returns an error
	// wrapping ErrSurfaceUnavailable when the environment cannot render.
	Open(vp Viewport, layers Layers) (Surface, error)
}
