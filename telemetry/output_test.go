package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/riverbed/config"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v, %v", om, err)
	}
	// Every method is safe on nil.
	if err := om.WritePerf(PerfStats{}, 1, 1); err != nil {
		t.Error(err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("expected empty dir")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManager_WritePerf(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	stats := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct:        map[string]float64{PhaseSurface: 70, PhaseRender: 25},
		FPS:             60,
	}
	for i := uint64(1); i <= 3; i++ {
		if err := om.WritePerf(stats, i*600, float64(i)*10); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "avg_tick_us"); n != 1 {
		t.Errorf("expected one header line, found %d", n)
	}

	var rows []PerfStatsCSV
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatalf("parsing perf.csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[2].Frame != 1800 || rows[2].Elapsed != 30 {
		t.Errorf("unexpected last row %+v", rows[2])
	}
	if rows[0].AvgTickUS != 2000 || rows[0].SurfacePct != 70 || rows[0].RipplesPct != 0 {
		t.Errorf("unexpected first row %+v", rows[0])
	}
}

func TestOutputManager_WriteTelemetry(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 2; i++ {
		ws := WindowStats{
			WindowStart: float64(i-1) * 10,
			WindowEnd:   float64(i) * 10,
			Frame:       uint64(i) * 600,
			Frames:      600,
			Recycled:    uint64(i) * 5,
			Particles:   1000,
			Width:       1280,
			Height:      720,
		}
		if err := om.WriteTelemetry(ws); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "window_start") {
		t.Error("window start should not be written")
	}

	var rows []WindowStats
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatalf("parsing telemetry.csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].WindowEnd != 20 || rows[1].Recycled != 10 || rows[1].Width != 1280 {
		t.Errorf("unexpected last row %+v", rows[1])
	}
}

func TestOutputManager_WriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	back, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reloading snapshot: %v", err)
	}
	if back.Options != cfg.Options {
		t.Errorf("options changed across snapshot: %+v vs %+v", back.Options, cfg.Options)
	}
}
