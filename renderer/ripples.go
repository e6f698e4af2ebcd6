package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/riverbed/systems"
)

// RippleRenderer draws the screen-space rings over the 3D scene.
type RippleRenderer struct {
	field     *systems.RippleField
	thickness float32
}

// NewRippleRenderer creates a renderer for field. A nil field draws nothing.
func NewRippleRenderer(field *systems.RippleField, thickness float32) *RippleRenderer {
	if thickness <= 0 {
		thickness = 2
	}
	return &RippleRenderer{field: field, thickness: thickness}
}

// Draw renders active rings as a solid edge with a fainter inner halo.
// Must be called outside BeginMode3D.
func (r *RippleRenderer) Draw(tint color.RGBA, intensity float64) {
	if r.field == nil {
		return
	}
	for _, rp := range r.field.Ripples() {
		if !rp.Active || rp.Radius <= 0 {
			continue
		}
		alpha := clampUnit(float64(rp.Alpha) * intensity)
		if alpha == 0 {
			continue
		}
		center := rl.NewVector2(rp.X, rp.Y)

		edge := tint
		edge.A = uint8(alpha * 255)
		inner := rp.Radius - r.thickness
		if inner < 0 {
			inner = 0
		}
		rl.DrawRing(center, inner, rp.Radius, 0, 360, 64, edge)

		halo := tint
		halo.A = uint8(alpha * 0.3 * 255)
		rl.DrawRing(center, rp.Radius*0.7, inner, 0, 360, 64, halo)
	}
}
