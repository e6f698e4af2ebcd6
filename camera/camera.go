// Package camera provides the slow drifting perspective camera over the surface.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Params describes the drift path. Rates are radians per second.
type Params struct {
	SwayX    float64 `yaml:"sway_x"`   // side-to-side amplitude
	RateX    float64 `yaml:"rate_x"`   // side-to-side angular rate
	Height   float64 `yaml:"height"`   // constant eye height
	Distance float64 `yaml:"distance"` // resting distance from the target
	SwayZ    float64 `yaml:"sway_z"`   // forward/back amplitude
	RateZ    float64 `yaml:"rate_z"`
	Fovy     float64 `yaml:"fovy"` // vertical field of view in degrees
}

// DefaultParams returns the drift used by the background.
func DefaultParams() Params {
	return Params{
		SwayX:    2,
		RateX:    0.1,
		Height:   5,
		Distance: 8,
		SwayZ:    1,
		RateZ:    0.15,
		Fovy:     75,
	}
}

// View is the camera pose at one instant.
type View struct {
	Position r3.Vec
	Target   r3.Vec
	Up       r3.Vec
	Fovy     float64
	Aspect   float64
}

// Forward returns the unit vector from Position towards Target.
func (v View) Forward() r3.Vec {
	return r3.Unit(r3.Sub(v.Target, v.Position))
}

// Camera holds the drift parameters and the current viewport aspect.
// The pose is a pure function of elapsed time.
type Camera struct {
	params Params
	aspect float64
}

// New creates a camera for a width x height viewport.
func New(p Params, width, height int) *Camera {
	c := &Camera{params: p, aspect: 1}
	c.Resize(width, height)
	return c
}

// At returns the pose after t seconds. The camera always looks at the origin.
func (c *Camera) At(t float64) View {
	p := c.params
	return View{
		Position: r3.Vec{
			X: p.SwayX * math.Sin(p.RateX*t),
			Y: p.Height,
			Z: p.Distance + p.SwayZ*math.Cos(p.RateZ*t),
		},
		Up:     r3.Vec{Y: 1},
		Fovy:   p.Fovy,
		Aspect: c.aspect,
	}
}

// Resize updates the aspect ratio. Non-positive sizes leave it unchanged.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float64(width) / float64(height)
}

// Aspect returns the current width/height ratio.
func (c *Camera) Aspect() float64 { return c.aspect }

// Params returns the drift parameters.
func (c *Camera) Params() Params { return c.params }
