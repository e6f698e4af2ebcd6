package systems

// Ripple is an expanding screen-space ring.
type Ripple struct {
	X, Y      float32
	Radius    float32
	MaxRadius float32
	Alpha     float32
	Speed     float32 // pixels per reference frame
	Active    bool
}

// RippleOptions controls ripple spawning. Durations are in reference frames.
type RippleOptions struct {
	Capacity     int
	InitialBurst int     // ripples spawned InitialGap apart at start
	InitialGap   float32 // frames between initial ripples
	IntervalMin  float32 // steady-state spawn interval range
	IntervalMax  float32
	MinRadius    float32
	MaxRadius    float32
	MinSpeed     float32
	MaxSpeed     float32
	StartAlpha   float32
}

// DefaultRippleOptions returns the surface-ring settings: up to five rings,
// three at start one second apart, then one every 2-5 seconds.
func DefaultRippleOptions() RippleOptions {
	return RippleOptions{
		Capacity:     5,
		InitialBurst: 3,
		InitialGap:   60,
		IntervalMin:  120,
		IntervalMax:  300,
		MinRadius:    100,
		MaxRadius:    300,
		MinSpeed:     1,
		MaxSpeed:     3,
		StartAlpha:   0.6,
	}
}

// RippleField keeps a fixed set of ripple slots over a screen-sized area.
type RippleField struct {
	opts   RippleOptions
	src    Source
	slots  []Ripple
	width  float32
	height float32

	interval  float32
	untilNext float32
	burstLeft int
}

// NewRippleField creates an empty field over a width x height area.
func NewRippleField(width, height int, src Source, opts RippleOptions) *RippleField {
	if opts.Capacity < 0 {
		opts.Capacity = 0
	}
	f := &RippleField{
		opts:      opts,
		src:       src,
		slots:     make([]Ripple, opts.Capacity),
		width:     float32(width),
		height:    float32(height),
		burstLeft: opts.InitialBurst,
	}
	f.interval = uniform(src, opts.IntervalMin, opts.IntervalMax)
	return f
}

// Advance grows active ripples by speed*intensity*dt and spawns new ones.
func (f *RippleField) Advance(dt, intensity float32) {
	for i := range f.slots {
		r := &f.slots[i]
		if !r.Active {
			continue
		}
		r.Radius += r.Speed * intensity * dt
		r.Alpha = f.opts.StartAlpha * (1 - r.Radius/r.MaxRadius)
		if r.Alpha < 0 {
			r.Alpha = 0
		}
		if r.Radius >= r.MaxRadius || r.Alpha <= 0 {
			r.Active = false
		}
	}

	f.untilNext -= dt
	for f.untilNext <= 0 {
		if f.burstLeft > 0 {
			f.burstLeft--
			f.spawn()
			if f.burstLeft > 0 {
				f.untilNext += f.opts.InitialGap
			} else {
				f.untilNext += f.interval
			}
			continue
		}
		if f.interval <= 0 {
			f.untilNext = 0
			break
		}
		if f.ActiveCount() < len(f.slots) {
			f.spawn()
		}
		f.untilNext += f.interval
	}
}

func (f *RippleField) spawn() {
	for i := range f.slots {
		if f.slots[i].Active {
			continue
		}
		f.slots[i] = Ripple{
			X:         uniform(f.src, 0, f.width),
			Y:         uniform(f.src, 0, f.height),
			MaxRadius: uniform(f.src, f.opts.MinRadius, f.opts.MaxRadius),
			Alpha:     f.opts.StartAlpha,
			Speed:     uniform(f.src, f.opts.MinSpeed, f.opts.MaxSpeed),
			Active:    true,
		}
		return
	}
}

// Resize changes the area new ripples spawn in.
func (f *RippleField) Resize(width, height int) {
	f.width = float32(width)
	f.height = float32(height)
}

// ActiveCount returns how many slots hold a visible ripple.
func (f *RippleField) ActiveCount() int {
	n := 0
	for i := range f.slots {
		if f.slots[i].Active {
			n++
		}
	}
	return n
}

// Capacity returns the number of slots.
func (f *RippleField) Capacity() int { return len(f.slots) }

// Ripples returns the slot buffer. Inactive slots must be skipped.
func (f *RippleField) Ripples() []Ripple { return f.slots }
