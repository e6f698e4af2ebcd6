// Package ui provides a descriptor-driven debug overlay for the scene.
// Panels are described as data so the fields shown can change alongside
// the stats they read from without touching layout code.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text
	WidgetBar                           // Progress bar over Range
	WidgetColorSwatch                   // Color preview square
	WidgetSpacer                        // Vertical spacing
)

// FieldRange defines the value range for bar widgets.
type FieldRange struct {
	Min float32
	Max float32
}

// DefaultRange returns a [0, 1] range.
func DefaultRange() FieldRange {
	return FieldRange{Min: 0, Max: 1}
}

// Normalize maps v into [0, 1] over the range.
func (r FieldRange) Normalize(v float32) float32 {
	if r.Max <= r.Min {
		return 0
	}
	n := (v - r.Min) / (r.Max - r.Min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// FieldDescriptor defines how to display a single value of D.
type FieldDescriptor[D any] struct {
	Label  string
	Widget WidgetType
	Range  FieldRange
	// Text formats the value; used by WidgetText and as the bar caption.
	Text  func(D) string
	Value func(D) float32
	Color func(D) rl.Color
	// Visible hides the field when it returns false. Nil means always.
	Visible func(D) bool
}

// SectionDescriptor groups fields under an optional header.
type SectionDescriptor[D any] struct {
	Title   string
	Fields  []FieldDescriptor[D]
	Visible func(D) bool
}

// PanelDescriptor defines a complete panel layout.
type PanelDescriptor[D any] struct {
	Title    string
	Sections []SectionDescriptor[D]
	Width    int32
	Anchor   PanelAnchor
}

// PanelAnchor specifies where a panel is anchored on screen.
type PanelAnchor int

const (
	AnchorTopLeft PanelAnchor = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	TitleColor     rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	ErrorColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillHigh    rl.Color
	Margin         int32
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 11, G: 18, B: 32, A: 210},
		PanelBorder:    rl.Color{R: 56, G: 78, B: 110, A: 255},
		TitleColor:     rl.White,
		SectionHeader:  rl.Color{R: 96, G: 165, B: 250, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		ErrorColor:     rl.Color{R: 248, G: 113, B: 113, A: 255},
		BarBg:          rl.Color{R: 30, G: 41, B: 59, A: 255},
		BarFill:        rl.Color{R: 14, G: 165, B: 233, A: 255},
		BarFillHigh:    rl.Color{R: 251, G: 146, B: 60, A: 255},
		Margin:         10,
		Padding:        8,
		LineHeight:     16,
		LabelWidth:     84,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
