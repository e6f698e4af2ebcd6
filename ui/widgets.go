package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawBox draws a panel background with border.
func (r *Renderer) DrawBox(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string, valueColor rl.Color) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, valueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a bar filled to value in [0, 1] with caption to its right.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, caption string, width int32) int32 {
	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	fill := r.Theme.BarFill
	if value > 0.5 {
		fill = r.Theme.BarFillHigh
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*value), r.Theme.BarHeight, fill)

	rl.DrawText(caption, barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawColorSwatch draws a color swatch with a caption.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, c rl.Color, caption string) int32 {
	swatchSize := int32(12)
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, swatchSize, swatchSize, c)
	rl.DrawText(caption, x+r.Theme.LabelWidth+swatchSize+6, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// fieldHeight returns the vertical space a field takes.
func fieldHeight(t Theme, w WidgetType) int32 {
	switch w {
	case WidgetBar:
		return t.LineHeight + 2
	case WidgetSpacer:
		return 6
	default:
		return t.LineHeight
	}
}

// MeasurePanel returns the height pd needs to draw data, including padding.
func MeasurePanel[D any](t Theme, pd PanelDescriptor[D], data D) int32 {
	h := 2 * t.Padding
	if pd.Title != "" {
		h += t.LineHeight + 4
	}
	for _, sd := range pd.Sections {
		if sd.Visible != nil && !sd.Visible(data) {
			continue
		}
		if sd.Title != "" {
			h += t.LineHeight
		}
		for _, fd := range sd.Fields {
			if fd.Visible != nil && !fd.Visible(data) {
				continue
			}
			h += fieldHeight(t, fd.Widget)
		}
		h += 4
	}
	return h
}

// PanelOrigin returns the top-left corner of a width x height panel
// anchored inside a screen of the given size.
func PanelOrigin(t Theme, anchor PanelAnchor, width, height, screenW, screenH int32) (x, y int32) {
	switch anchor {
	case AnchorTopRight:
		return screenW - width - t.Margin, t.Margin
	case AnchorBottomLeft:
		return t.Margin, screenH - height - t.Margin
	case AnchorBottomRight:
		return screenW - width - t.Margin, screenH - height - t.Margin
	default:
		return t.Margin, t.Margin
	}
}

// DrawPanel renders pd for data anchored on a screen of the given size.
func DrawPanel[D any](r *Renderer, pd PanelDescriptor[D], data D, screenW, screenH int32) {
	height := MeasurePanel(r.Theme, pd, data)
	x, y := PanelOrigin(r.Theme, pd.Anchor, pd.Width, height, screenW, screenH)
	r.DrawBox(x, y, pd.Width, height)

	x += r.Theme.Padding
	y += r.Theme.Padding
	inner := pd.Width - 2*r.Theme.Padding

	if pd.Title != "" {
		rl.DrawText(pd.Title, x, y, r.Theme.HeaderFontSize+2, r.Theme.TitleColor)
		y += r.Theme.LineHeight + 4
	}
	for _, sd := range pd.Sections {
		y = drawSection(r, x, y, sd, data, inner)
	}
}

func drawSection[D any](r *Renderer, x, y int32, sd SectionDescriptor[D], data D, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		y = drawField(r, x, y, fd, data, width)
	}
	return y + 4
}

func drawField[D any](r *Renderer, x, y int32, fd FieldDescriptor[D], data D, width int32) int32 {
	var text string
	if fd.Text != nil {
		text = fd.Text(data)
	}

	switch fd.Widget {
	case WidgetText:
		c := r.Theme.ValueColor
		if fd.Color != nil {
			c = fd.Color(data)
		}
		return r.DrawLabelValue(x, y, fd.Label, text, c)

	case WidgetBar:
		var v float32
		if fd.Value != nil {
			v = fd.Range.Normalize(fd.Value(data))
		}
		return r.DrawBar(x, y, fd.Label, v, text, width)

	case WidgetColorSwatch:
		c := rl.Blank
		if fd.Color != nil {
			c = fd.Color(data)
		}
		return r.DrawColorSwatch(x, y, fd.Label, c, text)

	case WidgetSpacer:
		return y + fieldHeight(r.Theme, WidgetSpacer)
	}
	return y
}
