package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/riverbed/config"
	"github.com/pthm-cable/riverbed/scene"
	"github.com/pthm-cable/riverbed/telemetry"
)

// HUDData holds everything the debug overlay shows.
type HUDData struct {
	Stats   scene.Stats
	Perf    telemetry.PerfStats
	Options config.Options
}

// HUD renders the debug overlay. It starts hidden.
type HUD struct {
	renderer *Renderer
	panel    PanelDescriptor[HUDData]
	visible  bool
}

// NewHUD creates a HUD whose intensity bar spans [0, lim.MaxIntensity].
func NewHUD(lim config.Limits) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		panel:    StatsPanel(lim),
	}
}

// SetVisible shows or hides the overlay.
func (h *HUD) SetVisible(v bool) { h.visible = v }

// Visible reports whether the overlay is drawn.
func (h *HUD) Visible() bool { return h.visible }

// Toggle flips visibility and returns the new state.
func (h *HUD) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

// Draw renders the overlay if visible.
func (h *HUD) Draw(data HUDData, screenW, screenH int32) {
	if !h.visible {
		return
	}
	DrawPanel(h.renderer, h.panel, data, screenW, screenH)
	rl.DrawText("H: toggle overlay", h.renderer.Theme.Margin, screenH-20, 12, rl.Gray)
}

// StatsPanel describes the overlay layout.
func StatsPanel(lim config.Limits) PanelDescriptor[HUDData] {
	theme := DefaultTheme()

	phaseBar := func(phase, label string) FieldDescriptor[HUDData] {
		return FieldDescriptor[HUDData]{
			Label:  label,
			Widget: WidgetBar,
			Range:  FieldRange{Min: 0, Max: 100},
			Value:  func(d HUDData) float32 { return float32(d.Perf.PhasePct[phase]) },
			Text:   func(d HUDData) string { return fmt.Sprintf("%.1f%%", d.Perf.PhasePct[phase]) },
		}
	}

	return PanelDescriptor[HUDData]{
		Title:  "riverbed",
		Width:  280,
		Anchor: AnchorTopLeft,
		Sections: []SectionDescriptor[HUDData]{
			{
				Title: "Scene",
				Fields: []FieldDescriptor[HUDData]{
					{
						Label:  "State",
						Widget: WidgetText,
						Text:   func(d HUDData) string { return d.Stats.State.String() },
						Color: func(d HUDData) rl.Color {
							if d.Stats.State == scene.Failed {
								return theme.ErrorColor
							}
							return theme.ValueColor
						},
					},
					{
						Label:   "Error",
						Widget:  WidgetText,
						Text:    func(d HUDData) string { return d.Stats.Err.Error() },
						Color:   func(HUDData) rl.Color { return theme.ErrorColor },
						Visible: func(d HUDData) bool { return d.Stats.Err != nil },
					},
					{
						Label:  "Viewport",
						Widget: WidgetText,
						Text: func(d HUDData) string {
							return fmt.Sprintf("%dx%d (%.2f)", d.Stats.Viewport.Width, d.Stats.Viewport.Height, d.Stats.Aspect)
						},
					},
					{
						Label:  "Elapsed",
						Widget: WidgetText,
						Text: func(d HUDData) string {
							return fmt.Sprintf("%.1fs / %d frames", d.Stats.Elapsed, d.Stats.Frames)
						},
					},
				},
			},
			{
				Title: "Layers",
				Fields: []FieldDescriptor[HUDData]{
					{
						Label:  "Surface",
						Widget: WidgetText,
						Text: func(d HUDData) string {
							return fmt.Sprintf("%d verts, %d tris", d.Stats.Vertices, d.Stats.Triangles)
						},
					},
					{
						Label:  "Particles",
						Widget: WidgetText,
						Text: func(d HUDData) string {
							return fmt.Sprintf("%d (%d recycled)", d.Stats.Particles, d.Stats.Recycled)
						},
					},
					{
						Label:  "Ripples",
						Widget: WidgetText,
						Text:   func(d HUDData) string { return fmt.Sprintf("%d active", d.Stats.Ripples) },
					},
				},
			},
			{
				Title: "Options",
				Fields: []FieldDescriptor[HUDData]{
					{
						Label:  "Tint",
						Widget: WidgetColorSwatch,
						Color:  func(d HUDData) rl.Color { return d.Options.Tint() },
						Text:   func(d HUDData) string { return config.HexColor(d.Options.Tint()) },
					},
					{
						Label:  "Intensity",
						Widget: WidgetBar,
						Range:  intensityRange(lim),
						Value:  func(d HUDData) float32 { return float32(d.Options.Intensity) },
						Text:   func(d HUDData) string { return fmt.Sprintf("%.2f", d.Options.Intensity) },
					},
				},
			},
			{
				Title:   "Frame",
				Visible: func(d HUDData) bool { return d.Perf.AvgTickDuration > 0 },
				Fields: []FieldDescriptor[HUDData]{
					{
						Label:  "FPS",
						Widget: WidgetText,
						Text:   func(d HUDData) string { return fmt.Sprintf("%.0f", d.Perf.FPS) },
					},
					{
						Label:  "Tick",
						Widget: WidgetText,
						Text: func(d HUDData) string {
							return fmt.Sprintf("%s (max %s)",
								d.Perf.AvgTickDuration.Round(time.Microsecond),
								d.Perf.MaxTickDuration.Round(time.Microsecond))
						},
					},
					{Widget: WidgetSpacer},
					phaseBar(telemetry.PhaseSurface, "surface"),
					phaseBar(telemetry.PhaseParticles, "particles"),
					phaseBar(telemetry.PhaseRipples, "ripples"),
					phaseBar(telemetry.PhaseRender, "render"),
				},
			},
		},
	}
}

// intensityRange is the intensity bar scale; unlimited intensity uses [0, 1].
func intensityRange(lim config.Limits) FieldRange {
	if lim.MaxIntensity <= 0 {
		return DefaultRange()
	}
	return FieldRange{Min: 0, Max: float32(lim.MaxIntensity)}
}
