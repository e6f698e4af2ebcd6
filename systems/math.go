package systems

// clamp01 clamps a float64 value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// mix linearly interpolates between a and b. t is not clamped, matching GLSL mix.
func mix(a, b, t float64) float64 {
	return a + (b-a)*t
}

// unitToByte converts a [0, 1] channel to 0-255.
func unitToByte(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
