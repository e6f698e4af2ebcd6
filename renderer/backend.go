// Package renderer draws the scene layers with raylib.
package renderer

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/riverbed/config"
	"github.com/pthm-cable/riverbed/scene"
)

// Backend opens raylib surfaces inside an already created window.
type Backend struct {
	surfaceOffset   float32
	particleSize    float32
	particleOpacity float32
	rippleThickness float32
}

// NewBackend creates a backend using the drawing settings in cfg.
func NewBackend(cfg *config.Config) *Backend {
	return &Backend{
		surfaceOffset:   cfg.Surface.Offset,
		particleSize:    cfg.Particles.Size,
		particleOpacity: cfg.Particles.Opacity,
		rippleThickness: cfg.Ripples.Thickness,
	}
}

// Open uploads the layers to the GPU. It fails with scene.ErrSurfaceUnavailable
// if no window is open or the shader cannot be compiled.
func (b *Backend) Open(vp scene.Viewport, layers scene.Layers) (scene.Surface, error) {
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("%w: no window", scene.ErrSurfaceUnavailable)
	}

	s := &Surface{
		vp:        vp,
		water:     NewSurfaceRenderer(layers.Mesh, b.surfaceOffset),
		particles: NewParticleRenderer(layers.Particles, b.particleSize, b.particleOpacity),
		ripples:   NewRippleRenderer(layers.Ripples, b.rippleThickness),
	}
	if err := s.water.Init(); err != nil {
		return nil, err
	}

	scene.Logger().Debug("renderer: surface opened",
		"vertices", layers.Mesh.VertexCount(),
		"triangles", layers.Mesh.TriangleCount(),
		"particles", layers.Particles.Len(),
	)
	return s, nil
}

// Surface is a raylib scene.Surface. Render must run between BeginDrawing
// and EndDrawing on the window thread.
type Surface struct {
	vp        scene.Viewport
	water     *SurfaceRenderer
	particles *ParticleRenderer
	ripples   *RippleRenderer
	released  bool
}

// Render syncs the mesh to the GPU and draws water, rain and ripples.
func (s *Surface) Render(f scene.Frame) error {
	if s.released || !s.water.Ready() || !rl.IsWindowReady() {
		return scene.ErrSurfaceLost
	}

	s.water.Sync()

	rl.BeginMode3D(toCamera(f))
	s.water.Draw()
	s.particles.Draw(f.Tint, f.Intensity)
	rl.EndMode3D()

	s.ripples.Draw(f.Tint, f.Intensity)
	return nil
}

// Resize records the new drawable size. raylib tracks the framebuffer
// itself; the projection aspect follows the window.
func (s *Surface) Resize(vp scene.Viewport) {
	s.vp = vp
}

// Viewport returns the last size given to Resize.
func (s *Surface) Viewport() scene.Viewport { return s.vp }

// Release unloads GPU resources. Later calls do nothing.
func (s *Surface) Release() {
	if s.released {
		return
	}
	s.released = true
	s.water.Unload()
	scene.Logger().Debug("renderer: surface released")
}

// toCamera converts a frame's view to a raylib perspective camera.
func toCamera(f scene.Frame) rl.Camera3D {
	v := f.View
	return rl.Camera3D{
		Position:   rl.NewVector3(float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z)),
		Target:     rl.NewVector3(float32(v.Target.X), float32(v.Target.Y), float32(v.Target.Z)),
		Up:         rl.NewVector3(float32(v.Up.X), float32(v.Up.Y), float32(v.Up.Z)),
		Fovy:       float32(v.Fovy),
		Projection: rl.CameraPerspective,
	}
}

// Background is the clear color behind the scene.
var Background = color.RGBA{R: 0x0b, G: 0x12, B: 0x20, A: 0xff}
