package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/riverbed/systems"
)

// ParticleRenderer draws the rain field as small additive cubes.
type ParticleRenderer struct {
	field   *systems.ParticleField
	size    float32
	opacity float32
}

// NewParticleRenderer creates a renderer for field. size is the cube edge
// in world units; opacity is the base alpha before intensity.
func NewParticleRenderer(field *systems.ParticleField, size, opacity float32) *ParticleRenderer {
	return &ParticleRenderer{field: field, size: size, opacity: opacity}
}

// Draw renders every slot tinted by tint and each slot's brightness.
// Must be called inside BeginMode3D.
func (r *ParticleRenderer) Draw(tint color.RGBA, intensity float64) {
	alpha := clampUnit(float64(r.opacity) * intensity)
	if alpha == 0 {
		return
	}

	rl.BeginBlendMode(rl.BlendAdditive)
	for i := 0; i < r.field.Len(); i++ {
		x, y, z := r.field.Position(i)
		b := r.field.Brightness(i)
		c := color.RGBA{
			R: uint8(float32(tint.R) * b),
			G: uint8(float32(tint.G) * b),
			B: uint8(float32(tint.B) * b),
			A: uint8(alpha * 255),
		}
		rl.DrawCube(rl.NewVector3(x, y, z), r.size, r.size, r.size, c)
	}
	rl.EndBlendMode()
}

// clampUnit clamps v to [0, 1].
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
