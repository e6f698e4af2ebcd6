package systems

import "gonum.org/v1/gonum/blas/blas32"

// Bounds is the box particles spawn in. Particles falling below LowerY are
// recycled at UpperY.
type Bounds struct {
	MinX, MaxX     float32
	LowerY, UpperY float32
	MinZ, MaxZ     float32
}

// DefaultBounds returns the rain volume above the surface.
func DefaultBounds() Bounds {
	return Bounds{
		MinX: -10, MaxX: 10,
		LowerY: -5, UpperY: 10,
		MinZ: -10, MaxZ: 10,
	}
}

// ContainsXZ reports whether (x, z) lies inside the horizontal extent.
func (b Bounds) ContainsXZ(x, z float32) bool {
	return x >= b.MinX && x <= b.MaxX && z >= b.MinZ && z <= b.MaxZ
}

// ParticleOptions controls the velocity and brightness distributions.
// Velocities are in world units per reference frame.
type ParticleOptions struct {
	Drift   float32 // horizontal speed range is [-Drift, Drift]
	FallMin float32 // vertical speed range is [-FallMax, -FallMin]
	FallMax float32
	Jitter  float32 // brightness range is [1-Jitter, 1]
}

// DefaultParticleOptions returns the light drizzle used by the background.
func DefaultParticleOptions() ParticleOptions {
	return ParticleOptions{
		Drift:   0.01,
		FallMin: 0.01,
		FallMax: 0.05,
		Jitter:  0.3,
	}
}

// ParticleField is a fixed-capacity buffer of falling particles. Slots are
// recycled, never added or removed, so the buffer layout is stable across frames.
type ParticleField struct {
	bounds Bounds
	opts   ParticleOptions
	src    Source

	positions  []float32 // xyz per slot
	velocities []float32 // xyz per slot
	brightness []float32

	pos blas32.Vector
	vel blas32.Vector

	recycled uint64
}

// NewParticleField fills capacity slots with random positions inside b.
func NewParticleField(capacity int, b Bounds, src Source, opts ParticleOptions) *ParticleField {
	if capacity < 0 {
		capacity = 0
	}
	f := &ParticleField{
		bounds:     b,
		opts:       opts,
		src:        src,
		positions:  make([]float32, capacity*3),
		velocities: make([]float32, capacity*3),
		brightness: make([]float32, capacity),
	}
	f.pos = blas32.Vector{N: len(f.positions), Inc: 1, Data: f.positions}
	f.vel = blas32.Vector{N: len(f.velocities), Inc: 1, Data: f.velocities}

	for i := 0; i < capacity; i++ {
		p := i * 3
		f.positions[p] = uniform(src, b.MinX, b.MaxX)
		f.positions[p+1] = uniform(src, b.LowerY, b.UpperY)
		f.positions[p+2] = uniform(src, b.MinZ, b.MaxZ)

		f.velocities[p] = uniform(src, -opts.Drift, opts.Drift)
		f.velocities[p+1] = -uniform(src, opts.FallMin, opts.FallMax)
		f.velocities[p+2] = uniform(src, -opts.Drift, opts.Drift)

		f.brightness[i] = 1 - float32(src.Next())*opts.Jitter
	}
	return f
}

// Advance moves every particle by velocity*dt and recycles those that fell
// below the lower bound to a fresh point on the upper bound.
func (f *ParticleField) Advance(dt float32) {
	if len(f.positions) == 0 {
		return
	}
	blas32.Axpy(dt, f.vel, f.pos)

	for p := 1; p < len(f.positions); p += 3 {
		if f.positions[p] >= f.bounds.LowerY {
			continue
		}
		f.positions[p-1] = uniform(f.src, f.bounds.MinX, f.bounds.MaxX)
		f.positions[p] = f.bounds.UpperY
		f.positions[p+1] = uniform(f.src, f.bounds.MinZ, f.bounds.MaxZ)
		f.recycled++
	}
}

// Len returns the number of slots. It never changes.
func (f *ParticleField) Len() int { return len(f.brightness) }

// Position returns the position of slot i.
func (f *ParticleField) Position(i int) (x, y, z float32) {
	p := i * 3
	return f.positions[p], f.positions[p+1], f.positions[p+2]
}

// Velocity returns the velocity of slot i.
func (f *ParticleField) Velocity(i int) (x, y, z float32) {
	p := i * 3
	return f.velocities[p], f.velocities[p+1], f.velocities[p+2]
}

// Brightness returns the tint multiplier of slot i.
func (f *ParticleField) Brightness(i int) float32 { return f.brightness[i] }

// Positions returns the flat xyz buffer. Callers must not modify it.
func (f *ParticleField) Positions() []float32 { return f.positions }

// Bounds returns the spawn volume.
func (f *ParticleField) Bounds() Bounds { return f.bounds }

// Recycled returns how many times any slot has been recycled.
func (f *ParticleField) Recycled() uint64 { return f.recycled }
