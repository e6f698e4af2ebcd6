package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p95", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.95, 9.55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeFrameStats(t *testing.T) {
	// Unsorted input with one stall.
	values := []float64{16, 17, 16, 50, 17, 16, 17, 16, 17, 16}
	mean, p50, p95, max := ComputeFrameStats(values)

	if math.Abs(mean-19.8) > 0.001 {
		t.Errorf("mean = %v, want 19.8", mean)
	}
	if math.Abs(p50-16.5) > 0.001 {
		t.Errorf("p50 = %v, want 16.5", p50)
	}
	// sorted[8]=17, sorted[9]=50, idx 8.55
	if math.Abs(p95-(17*0.45+50*0.55)) > 0.001 {
		t.Errorf("p95 = %v, want %v", p95, 17*0.45+50*0.55)
	}
	if max != 50 {
		t.Errorf("max = %v, want 50", max)
	}
	if values[3] != 50 {
		t.Error("input should not be reordered")
	}
}

func TestComputeFrameStatsEmpty(t *testing.T) {
	mean, p50, p95, max := ComputeFrameStats(nil)
	if mean != 0 || p50 != 0 || p95 != 0 || max != 0 {
		t.Error("empty slice should return all zeros")
	}
}
