package systems

import "testing"

func TestParticleFieldInitialization(t *testing.T) {
	b := DefaultBounds()
	opts := DefaultParticleOptions()
	f := NewParticleField(500, b, NewRandSource(42), opts)

	if f.Len() != 500 {
		t.Fatalf("expected 500 particles, got %d", f.Len())
	}
	if len(f.Positions()) != 1500 {
		t.Fatalf("expected 1500 position components, got %d", len(f.Positions()))
	}

	for i := 0; i < f.Len(); i++ {
		x, y, z := f.Position(i)
		if !b.ContainsXZ(x, z) || y < b.LowerY || y > b.UpperY {
			t.Errorf("particle %d spawned outside bounds: (%v, %v, %v)", i, x, y, z)
		}
		vx, vy, vz := f.Velocity(i)
		if vx < -opts.Drift || vx > opts.Drift || vz < -opts.Drift || vz > opts.Drift {
			t.Errorf("particle %d: horizontal velocity (%v, %v) outside drift range", i, vx, vz)
		}
		if vy > -opts.FallMin || vy < -opts.FallMax {
			t.Errorf("particle %d: fall velocity %v outside [-%v, -%v]", i, vy, opts.FallMax, opts.FallMin)
		}
		if br := f.Brightness(i); br < 1-opts.Jitter || br > 1 {
			t.Errorf("particle %d: brightness %v outside range", i, br)
		}
	}
}

func TestParticleFieldLengthInvariant(t *testing.T) {
	f := NewParticleField(200, DefaultBounds(), NewRandSource(7), DefaultParticleOptions())

	for i := 0; i < 10000; i++ {
		f.Advance(1)
	}

	if f.Len() != 200 {
		t.Errorf("expected 200 particles after 10000 advances, got %d", f.Len())
	}
	if len(f.Positions()) != 600 {
		t.Errorf("expected 600 position components, got %d", len(f.Positions()))
	}
	if f.Recycled() == 0 {
		t.Error("expected particles to be recycled over 10000 frames")
	}
}

func TestParticleFieldRecycling(t *testing.T) {
	b := DefaultBounds()
	f := NewParticleField(300, b, NewRandSource(1234), DefaultParticleOptions())

	const dt = 2.5
	const margin = 1e-4
	for frame := 0; frame < 400; frame++ {
		type slot struct {
			y, next, vx, vz float32
		}
		before := make([]slot, f.Len())
		for i := range before {
			_, y, _ := f.Position(i)
			vx, vy, vz := f.Velocity(i)
			before[i] = slot{y: y, next: y + vy*dt, vx: vx, vz: vz}
		}
		recycledBefore := f.Recycled()

		f.Advance(dt)

		var recycled uint64
		for i, s := range before {
			x, y, z := f.Position(i)
			vx, _, vz := f.Velocity(i)
			if vx != s.vx || vz != s.vz {
				t.Fatalf("frame %d slot %d: velocity changed on advance", frame, i)
			}
			if y < b.LowerY {
				t.Fatalf("frame %d slot %d: y=%v left below lower bound", frame, i, y)
			}

			// Falling particles only move up when recycled.
			if y <= s.y {
				if s.next < b.LowerY-margin {
					t.Fatalf("frame %d slot %d: crossed to %v but was not recycled", frame, i, s.next)
				}
				continue
			}
			recycled++
			if s.next > b.LowerY+margin {
				t.Fatalf("frame %d slot %d: recycled without crossing (next y %v)", frame, i, s.next)
			}
			if y != b.UpperY {
				t.Fatalf("frame %d slot %d: recycled y=%v, want %v", frame, i, y, b.UpperY)
			}
			if !b.ContainsXZ(x, z) {
				t.Fatalf("frame %d slot %d: recycled to (%v, %v) outside bounds", frame, i, x, z)
			}
		}
		if got := f.Recycled() - recycledBefore; got != recycled {
			t.Fatalf("frame %d: Recycled() advanced by %d, observed %d", frame, got, recycled)
		}
	}
	if f.Recycled() == 0 {
		t.Error("expected some particles to be recycled")
	}
}

func TestParticleFieldSeededReproducible(t *testing.T) {
	a := NewParticleField(50, DefaultBounds(), NewRandSource(99), DefaultParticleOptions())
	b := NewParticleField(50, DefaultBounds(), NewRandSource(99), DefaultParticleOptions())

	for i := 0; i < 1000; i++ {
		a.Advance(1)
		b.Advance(1)
	}
	for i, v := range a.Positions() {
		if b.Positions()[i] != v {
			t.Fatalf("component %d differs between identically seeded fields: %v vs %v", i, v, b.Positions()[i])
		}
	}
}

func TestParticleFieldScriptedSource(t *testing.T) {
	b := Bounds{MinX: 0, MaxX: 10, LowerY: 0, UpperY: 10, MinZ: 0, MaxZ: 10}
	opts := ParticleOptions{Drift: 0, FallMin: 1, FallMax: 1}
	src := SourceFunc(func() float64 { return 0.5 })

	f := NewParticleField(1, b, src, opts)
	x, y, z := f.Position(0)
	if x != 5 || y != 5 || z != 5 {
		t.Fatalf("expected spawn at (5, 5, 5), got (%v, %v, %v)", x, y, z)
	}

	f.Advance(5)
	if _, y, _ := f.Position(0); y != 0 {
		t.Errorf("expected y=0 exactly on the bound (not recycled), got %v", y)
	}

	f.Advance(0.5)
	x, y, z = f.Position(0)
	if y != 10 || x != 5 || z != 5 {
		t.Errorf("expected recycle to (5, 10, 5), got (%v, %v, %v)", x, y, z)
	}
	if f.Recycled() != 1 {
		t.Errorf("expected 1 recycle, got %d", f.Recycled())
	}
}

func TestParticleFieldEmpty(t *testing.T) {
	f := NewParticleField(0, DefaultBounds(), NewRandSource(1), DefaultParticleOptions())
	f.Advance(1)
	if f.Len() != 0 {
		t.Errorf("expected empty field, got %d", f.Len())
	}
}
