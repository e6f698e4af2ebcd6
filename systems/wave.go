package systems

import "math"

// Wave is one sinusoidal term of a height or flow field:
//
//	Amp * sin(FreqX*x + FreqY*y + FreqR*sqrt(x²+y²) + Phase + Rate*t)
//
// Terms with Rate == 0 are static and make up the surface relief.
type Wave struct {
	FreqX float64 `yaml:"freq_x"`
	FreqY float64 `yaml:"freq_y"`
	FreqR float64 `yaml:"freq_r"` // radial frequency, distance from origin
	Phase float64 `yaml:"phase"`
	Rate  float64 `yaml:"rate"` // radians per second
	Amp   float64 `yaml:"amp"`
}

// Eval returns the value of the term at (x, y) and time t.
func (w Wave) Eval(x, y, t float64) float64 {
	arg := w.FreqX*x + w.FreqY*y + w.Phase + w.Rate*t
	if w.FreqR != 0 {
		arg += w.FreqR * math.Sqrt(x*x+y*y)
	}
	return w.Amp * math.Sin(arg)
}

// Superpose sums every term in waves at (x, y, t).
func Superpose(waves []Wave, x, y, t float64) float64 {
	var sum float64
	for _, w := range waves {
		sum += w.Eval(x, y, t)
	}
	return sum
}

// MaxAmplitude returns the largest absolute value Superpose can produce.
func MaxAmplitude(waves []Wave) float64 {
	var sum float64
	for _, w := range waves {
		sum += math.Abs(w.Amp)
	}
	return sum
}
