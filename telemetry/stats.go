package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated scene statistics for one stats window.
type WindowStats struct {
	WindowStart float64 `csv:"-"`
	WindowEnd   float64 `csv:"window_end"` // scene elapsed seconds
	Frame       uint64  `csv:"frame"`

	// Activity during the window
	Frames      uint64  `csv:"frames"`
	Recycled    uint64  `csv:"recycled"`
	RecycleRate float64 `csv:"recycle_rate"` // particles recycled per second
	RipplesMean float64 `csv:"ripples_mean"`
	RipplesMax  int     `csv:"ripples_max"`

	// Frame interval distribution in milliseconds
	FrameMSMean float64 `csv:"frame_ms_mean"`
	FrameMSP50  float64 `csv:"frame_ms_p50"`
	FrameMSP95  float64 `csv:"frame_ms_p95"`
	FrameMSMax  float64 `csv:"frame_ms_max"`

	// Sizes at window end
	Particles int `csv:"particles"`
	Width     int `csv:"width"`
	Height    int `csv:"height"`
}

// Percentile calculates the p-th percentile of a sorted slice, interpolating
// linearly between closest ranks at index p*(n-1).
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFrameStats returns the mean, median, 95th percentile and maximum
// of values. values is not modified.
func ComputeFrameStats(values []float64) (mean, p50, p95, max float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = Percentile(sorted, 0.50)
	p95 = Percentile(sorted, 0.95)
	max = floats.Max(sorted)
	return mean, p50, p95, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("window_end", s.WindowEnd),
		slog.Uint64("frame", s.Frame),
		slog.Uint64("frames", s.Frames),
		slog.Int("particles", s.Particles),
		slog.Uint64("recycled", s.Recycled),
		slog.Float64("recycle_rate", s.RecycleRate),
		slog.Float64("ripples_mean", s.RipplesMean),
		slog.Float64("frame_ms_p50", s.FrameMSP50),
		slog.Float64("frame_ms_p95", s.FrameMSP95),
		slog.Float64("frame_ms_max", s.FrameMSMax),
	)
}
