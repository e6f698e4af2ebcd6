// Package config provides configuration loading and access for the renderer.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/riverbed/camera"
	"github.com/pthm-cable/riverbed/systems"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrOptionClamped is wrapped by every adjustment Options.Normalize makes.
var ErrOptionClamped = errors.New("option clamped")

// Config holds all renderer configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Particles ParticlesConfig `yaml:"particles"`
	Ripples   RipplesConfig   `yaml:"ripples"`
	Camera    camera.Params   `yaml:"camera"`
	Driver    DriverConfig    `yaml:"driver"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Limits    Limits          `yaml:"limits"`
	Options   Options         `yaml:"options"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

// SurfaceConfig holds the water surface grid and its wave terms.
type SurfaceConfig struct {
	Width    float64        `yaml:"width"`
	Depth    float64        `yaml:"depth"`
	Segments int            `yaml:"segments"`
	Relief   []systems.Wave `yaml:"relief"`
	Ripples  []systems.Wave `yaml:"ripples"`
	Flow     []systems.Wave `yaml:"flow"`
	Palette  PaletteConfig  `yaml:"palette"`
	Offset   float32        `yaml:"offset"` // vertical placement below the camera target
}

// PaletteConfig holds hex colors for the surface shading.
type PaletteConfig struct {
	Low  string `yaml:"low"`
	High string `yaml:"high"`
	Flow string `yaml:"flow"`
}

// ParticlesConfig holds the rain volume and velocity distributions.
// Velocities are world units per reference frame.
type ParticlesConfig struct {
	MinX    float32 `yaml:"min_x"`
	MaxX    float32 `yaml:"max_x"`
	LowerY  float32 `yaml:"lower_y"` // particles below this are recycled
	UpperY  float32 `yaml:"upper_y"` // recycled particles restart here
	MinZ    float32 `yaml:"min_z"`
	MaxZ    float32 `yaml:"max_z"`
	Drift   float32 `yaml:"drift"`
	FallMin float32 `yaml:"fall_min"`
	FallMax float32 `yaml:"fall_max"`
	Jitter  float32 `yaml:"jitter"`  // brightness variation
	Size    float32 `yaml:"size"`    // rendered edge length
	Opacity float32 `yaml:"opacity"` // base alpha before intensity
}

// RipplesConfig holds the screen-space ring settings. Durations are reference frames.
type RipplesConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Capacity     int     `yaml:"capacity"`
	InitialBurst int     `yaml:"initial_burst"`
	InitialGap   float32 `yaml:"initial_gap"`
	IntervalMin  float32 `yaml:"interval_min"`
	IntervalMax  float32 `yaml:"interval_max"`
	MinRadius    float32 `yaml:"min_radius"`
	MaxRadius    float32 `yaml:"max_radius"`
	MinSpeed     float32 `yaml:"min_speed"`
	MaxSpeed     float32 `yaml:"max_speed"`
	StartAlpha   float32 `yaml:"start_alpha"`
	Thickness    float32 `yaml:"thickness"`
}

// DriverConfig holds frame pacing parameters.
type DriverConfig struct {
	ReferenceFPS float64 `yaml:"reference_fps"`  // one unit of particle velocity per frame at this rate
	MaxFrameStep float64 `yaml:"max_frame_step"` // largest step in reference frames (stall protection)
}

// TelemetryConfig holds performance stats settings.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds between stats log lines
	PerfWindow  int     `yaml:"perf_window"`  // frames kept for rolling averages
}

// Limits bounds the mount options.
type Limits struct {
	MaxParticles int     `yaml:"max_particles"`
	MaxIntensity float64 `yaml:"max_intensity"`
}

// Options are the values a host passes when mounting the scene.
type Options struct {
	ParticleCount int     `yaml:"particle_count"`
	Color         string  `yaml:"color"` // hex tint for particles and ripples
	Intensity     float64 `yaml:"intensity"`
}

// DefaultTint is used when Options.Color is empty or unparseable.
var DefaultTint = color.RGBA{R: 0x60, G: 0xa5, B: 0xfa, A: 0xff}

// Normalize clamps o into lim. The returned error joins one ErrOptionClamped
// per adjusted field; the returned Options are always usable.
func (o Options) Normalize(lim Limits) (Options, error) {
	var errs []error
	if o.ParticleCount < 1 {
		errs = append(errs, fmt.Errorf("%w: particle count %d raised to 1", ErrOptionClamped, o.ParticleCount))
		o.ParticleCount = 1
	}
	if lim.MaxParticles > 0 && o.ParticleCount > lim.MaxParticles {
		errs = append(errs, fmt.Errorf("%w: particle count %d lowered to %d", ErrOptionClamped, o.ParticleCount, lim.MaxParticles))
		o.ParticleCount = lim.MaxParticles
	}
	if math.IsNaN(o.Intensity) || math.IsInf(o.Intensity, 0) {
		errs = append(errs, fmt.Errorf("%w: intensity %g replaced by 1", ErrOptionClamped, o.Intensity))
		o.Intensity = 1
	}
	if o.Intensity < 0 {
		errs = append(errs, fmt.Errorf("%w: intensity %g raised to 0", ErrOptionClamped, o.Intensity))
		o.Intensity = 0
	}
	if lim.MaxIntensity > 0 && o.Intensity > lim.MaxIntensity {
		errs = append(errs, fmt.Errorf("%w: intensity %g lowered to %g", ErrOptionClamped, o.Intensity, lim.MaxIntensity))
		o.Intensity = lim.MaxIntensity
	}
	if _, err := ParseHexColor(o.Color); err != nil {
		errs = append(errs, fmt.Errorf("%w: color %q replaced by default: %v", ErrOptionClamped, o.Color, err))
		o.Color = HexColor(DefaultTint)
	}
	return o, errors.Join(errs...)
}

// Tint returns the parsed color, or DefaultTint if it does not parse.
func (o Options) Tint() color.RGBA {
	c, err := ParseHexColor(o.Color)
	if err != nil {
		return DefaultTint
	}
	return c
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa". The leading # is optional.
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("hex color %q: want 3, 6 or 8 digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// HexColor formats c as "#rrggbb", or "#rrggbbaa" when not opaque.
func HexColor(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	Surface   systems.SurfaceParams
	Bounds    systems.Bounds
	Particles systems.ParticleOptions
	Ripples   systems.RippleOptions
	FrameUnit float64 // seconds per reference frame
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from path (or embedded defaults if empty)
// and stores it for access via Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file; lists are replaced whole.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived builds the simulation parameters from the loaded sections.
func (c *Config) computeDerived() error {
	pal := systems.DefaultPalette()
	for _, p := range []struct {
		name string
		hex  string
		dst  *color.RGBA
	}{
		{"low", c.Surface.Palette.Low, &pal.Low},
		{"high", c.Surface.Palette.High, &pal.High},
		{"flow", c.Surface.Palette.Flow, &pal.Flow},
	} {
		if p.hex == "" {
			continue
		}
		col, err := ParseHexColor(p.hex)
		if err != nil {
			return fmt.Errorf("surface palette %s: %w", p.name, err)
		}
		*p.dst = col
	}

	c.Derived.Surface = systems.SurfaceParams{
		Width:    c.Surface.Width,
		Depth:    c.Surface.Depth,
		Segments: c.Surface.Segments,
		Relief:   c.Surface.Relief,
		Ripples:  c.Surface.Ripples,
		Flow:     c.Surface.Flow,
		Palette:  pal,
	}
	if err := c.Derived.Surface.Validate(); err != nil {
		return fmt.Errorf("surface: %w", err)
	}

	p := c.Particles
	if !(p.MinX < p.MaxX) {
		return fmt.Errorf("particles: min_x %g must be below max_x %g", p.MinX, p.MaxX)
	}
	if !(p.LowerY < p.UpperY) {
		return fmt.Errorf("particles: lower_y %g must be below upper_y %g", p.LowerY, p.UpperY)
	}
	if !(p.MinZ < p.MaxZ) {
		return fmt.Errorf("particles: min_z %g must be below max_z %g", p.MinZ, p.MaxZ)
	}
	c.Derived.Bounds = systems.Bounds{
		MinX: p.MinX, MaxX: p.MaxX,
		LowerY: p.LowerY, UpperY: p.UpperY,
		MinZ: p.MinZ, MaxZ: p.MaxZ,
	}
	c.Derived.Particles = systems.ParticleOptions{
		Drift:   p.Drift,
		FallMin: p.FallMin,
		FallMax: p.FallMax,
		Jitter:  p.Jitter,
	}

	r := c.Ripples
	c.Derived.Ripples = systems.RippleOptions{
		Capacity:     r.Capacity,
		InitialBurst: r.InitialBurst,
		InitialGap:   r.InitialGap,
		IntervalMin:  r.IntervalMin,
		IntervalMax:  r.IntervalMax,
		MinRadius:    r.MinRadius,
		MaxRadius:    r.MaxRadius,
		MinSpeed:     r.MinSpeed,
		MaxSpeed:     r.MaxSpeed,
		StartAlpha:   r.StartAlpha,
	}
	if !r.Enabled {
		c.Derived.Ripples.Capacity = 0
		c.Derived.Ripples.InitialBurst = 0
	}

	if c.Driver.ReferenceFPS <= 0 {
		c.Driver.ReferenceFPS = 60
	}
	c.Derived.FrameUnit = 1 / c.Driver.ReferenceFPS
	return nil
}

// Refresh recomputes Derived after sections were edited in place.
func (c *Config) Refresh() error {
	return c.computeDerived()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
