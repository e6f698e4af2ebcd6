package systems

import "math/rand"

// Source yields uniformly distributed values in [0, 1).
// Particle and ripple spawning draw from a Source so callers can substitute a
// seeded or scripted sequence.
type Source interface {
	Next() float64
}

// randSource adapts math/rand to Source.
type randSource struct {
	rng *rand.Rand
}

// NewRandSource creates a Source backed by a seeded math/rand generator.
func NewRandSource(seed int64) Source {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *randSource) Next() float64 {
	return s.rng.Float64()
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() float64

// Next calls f.
func (f SourceFunc) Next() float64 {
	return f()
}

// uniform returns a value in [lo, hi) drawn from src.
func uniform(src Source, lo, hi float32) float32 {
	return lo + float32(src.Next())*(hi-lo)
}
