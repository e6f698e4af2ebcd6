package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNew(t *testing.T) {
	cam := New(DefaultParams(), 1280, 720)

	if !scalar.EqualWithinAbs(cam.Aspect(), 1280.0/720.0, 1e-12) {
		t.Errorf("expected aspect %f, got %f", 1280.0/720.0, cam.Aspect())
	}

	v := cam.At(0)
	want := r3.Vec{X: 0, Y: 5, Z: 9}
	if r3.Norm(r3.Sub(v.Position, want)) > 1e-12 {
		t.Errorf("expected start position %v, got %v", want, v.Position)
	}
	if v.Target != (r3.Vec{}) {
		t.Errorf("expected target at origin, got %v", v.Target)
	}
	if v.Up != (r3.Vec{Y: 1}) {
		t.Errorf("expected +y up, got %v", v.Up)
	}
	if v.Fovy != 75 {
		t.Errorf("expected fovy 75, got %f", v.Fovy)
	}
}

func TestAtIsPure(t *testing.T) {
	cam := New(DefaultParams(), 800, 600)
	for _, tm := range []float64{0, 1.5, 60, 3600} {
		a := cam.At(tm)
		b := cam.At(tm)
		if a != b {
			t.Errorf("t=%v: At not deterministic: %v vs %v", tm, a, b)
		}
	}
}

func TestDriftBounded(t *testing.T) {
	p := DefaultParams()
	cam := New(p, 1920, 1080)

	for i := 0; i < 10000; i++ {
		tm := float64(i) * 0.37
		pos := cam.At(tm).Position
		if math.Abs(pos.X) > p.SwayX+1e-9 {
			t.Fatalf("t=%v: x=%f exceeds sway %f", tm, pos.X, p.SwayX)
		}
		if pos.Y != p.Height {
			t.Fatalf("t=%v: height changed to %f", tm, pos.Y)
		}
		if pos.Z < p.Distance-p.SwayZ-1e-9 || pos.Z > p.Distance+p.SwayZ+1e-9 {
			t.Fatalf("t=%v: z=%f outside [%f, %f]", tm, pos.Z, p.Distance-p.SwayZ, p.Distance+p.SwayZ)
		}
	}
}

func TestForwardLooksAtOrigin(t *testing.T) {
	cam := New(DefaultParams(), 1280, 720)
	v := cam.At(12)
	f := v.Forward()

	if !scalar.EqualWithinAbs(r3.Norm(f), 1, 1e-12) {
		t.Errorf("expected unit forward, got length %f", r3.Norm(f))
	}
	// Stepping along forward by the eye distance lands on the target.
	end := r3.Add(v.Position, r3.Scale(r3.Norm(v.Position), f))
	if r3.Norm(end) > 1e-9 {
		t.Errorf("expected forward to reach origin, ended at %v", end)
	}
}

func TestResize(t *testing.T) {
	cam := New(DefaultParams(), 1280, 720)
	before := cam.At(5).Position

	cam.Resize(1000, 1000)
	if cam.Aspect() != 1 {
		t.Errorf("expected aspect 1 after resize, got %f", cam.Aspect())
	}
	if cam.At(5).Position != before {
		t.Error("resize should not move the camera")
	}

	// Degenerate sizes are ignored.
	cam.Resize(0, 500)
	cam.Resize(500, -1)
	if cam.Aspect() != 1 {
		t.Errorf("expected aspect unchanged by invalid sizes, got %f", cam.Aspect())
	}
}
