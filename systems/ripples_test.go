package systems

import "testing"

func TestRippleFieldInitialBurst(t *testing.T) {
	opts := DefaultRippleOptions()
	opts.MinSpeed, opts.MaxSpeed = 0.1, 0.1
	f := NewRippleField(1280, 720, NewRandSource(3), opts)

	if f.ActiveCount() != 0 {
		t.Fatalf("expected no ripples before the first frame, got %d", f.ActiveCount())
	}

	f.Advance(1, 1)
	if f.ActiveCount() != 1 {
		t.Errorf("expected 1 ripple after first frame, got %d", f.ActiveCount())
	}

	// Two more arrive one second apart.
	for i := 0; i < 60; i++ {
		f.Advance(1, 1)
	}
	if f.ActiveCount() != 2 {
		t.Errorf("expected 2 ripples after one second, got %d", f.ActiveCount())
	}
	for i := 0; i < 60; i++ {
		f.Advance(1, 1)
	}
	if f.ActiveCount() != 3 {
		t.Errorf("expected 3 ripples after two seconds, got %d", f.ActiveCount())
	}
}

func TestRippleFieldCapacityFixed(t *testing.T) {
	opts := DefaultRippleOptions()
	opts.IntervalMin = 1
	opts.IntervalMax = 1
	opts.MinSpeed = 0.1
	opts.MaxSpeed = 0.1
	f := NewRippleField(800, 600, NewRandSource(11), opts)

	for i := 0; i < 5000; i++ {
		f.Advance(1, 1)
		if f.ActiveCount() > opts.Capacity {
			t.Fatalf("frame %d: %d active ripples exceeds capacity %d", i, f.ActiveCount(), opts.Capacity)
		}
	}
	if f.Capacity() != opts.Capacity || len(f.Ripples()) != opts.Capacity {
		t.Errorf("expected %d slots, got %d", opts.Capacity, len(f.Ripples()))
	}
}

func TestRippleGrowthAndFade(t *testing.T) {
	opts := DefaultRippleOptions()
	opts.InitialBurst = 1
	opts.IntervalMin = 1e9
	opts.IntervalMax = 1e9
	opts.MinRadius, opts.MaxRadius = 100, 100
	opts.MinSpeed, opts.MaxSpeed = 2, 2
	f := NewRippleField(100, 100, NewRandSource(5), opts)

	f.Advance(1, 1) // spawn
	f.Advance(10, 2.5)

	r := f.Ripples()[0]
	if !r.Active {
		t.Fatal("expected ripple to be active")
	}
	if r.Radius != 50 {
		t.Errorf("expected radius 50 (2 px * 2.5 intensity * 10 frames), got %v", r.Radius)
	}
	if r.Alpha != 0.3 {
		t.Errorf("expected alpha 0.3 at half radius, got %v", r.Alpha)
	}
	if r.X < 0 || r.X > 100 || r.Y < 0 || r.Y > 100 {
		t.Errorf("ripple spawned outside area: (%v, %v)", r.X, r.Y)
	}

	f.Advance(25, 1)
	if f.Ripples()[0].Active {
		t.Error("expected ripple to expire at max radius")
	}

	// Intensity zero freezes growth.
	g := NewRippleField(100, 100, NewRandSource(5), opts)
	g.Advance(1, 0)
	g.Advance(100, 0)
	if g.Ripples()[0].Radius != 0 || !g.Ripples()[0].Active {
		t.Errorf("expected frozen ripple at zero intensity, got %+v", g.Ripples()[0])
	}
}

func TestRippleResizeKeepsSlots(t *testing.T) {
	f := NewRippleField(1280, 720, NewRandSource(8), DefaultRippleOptions())
	f.Advance(1, 1)
	before := f.Ripples()[0]

	f.Resize(640, 480)
	if f.Capacity() != DefaultRippleOptions().Capacity {
		t.Errorf("resize changed capacity to %d", f.Capacity())
	}
	if f.Ripples()[0] != before {
		t.Error("resize should not touch existing ripples")
	}
}
