package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/riverbed/config"
	"github.com/pthm-cable/riverbed/renderer"
	"github.com/pthm-cable/riverbed/scene"
	"github.com/pthm-cable/riverbed/systems"
	"github.com/pthm-cable/riverbed/telemetry"
	"github.com/pthm-cable/riverbed/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	particles := flag.Int("particles", 0, "Particle count (overrides options.particle_count)")
	tint := flag.String("color", "", "Particle and ripple tint as hex, e.g. #60a5fa")
	intensity := flag.Float64("intensity", 0, "Animation intensity (overrides options.intensity)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	maxFrames := flag.Uint64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	showHUD := flag.Bool("hud", false, "Show the debug overlay (toggle with H)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	scene.SetLogger(logger)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Flags override the configured mount options only when given.
	opts := cfg.Options
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "particles":
			opts.ParticleCount = *particles
		case "color":
			opts.Color = *tint
		case "intensity":
			opts.Intensity = *intensity
		}
	})

	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	win := renderer.OpenWindow(cfg.Screen, renderer.WindowOptions{})
	defer win.Close()

	clock := scene.NewWallClock()
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	host := scene.NewHost(scene.HostConfigFrom(cfg), scene.Env{
		Backend:   renderer.NewBackend(cfg),
		Scheduler: win.Queue(),
		Clock:     clock,
		Resize:    win.Queue(),
		Source:    systems.NewRandSource(rngSeed),
		Profiler:  perf,
	})
	// A failed mount leaves the plain background; the page keeps running.
	if err := host.Mount(win.Viewport(), opts); err != nil {
		slog.Error("scene unavailable, showing background only", "error", err)
	}
	defer host.Unmount()

	slog.Info("starting",
		"seed", rngSeed,
		"particles", host.Options().ParticleCount,
		"color", host.Options().Color,
		"intensity", host.Options().Intensity,
		"max_frames", *maxFrames,
	)

	collector := telemetry.NewCollector(statsWindowSec)
	hud := ui.NewHUD(cfg.Limits)
	hud.SetVisible(*showHUD)

	win.Run(renderer.RunOptions{
		MaxFrames: *maxFrames,
		Overlay: func() {
			if rl.IsKeyPressed(rl.KeyH) {
				hud.Toggle()
			}
			if !hud.Visible() {
				return
			}
			hud.Draw(ui.HUDData{
				Stats:   host.Stats(),
				Perf:    perf.Stats(),
				Options: host.Options(),
			}, int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
		},
		AfterFrame: func(uint64) {
			now := clock.Now()
			stats := host.Stats()
			collector.Record(stats.Sample(), now)
			if !collector.ShouldFlush(now) {
				return
			}

			window := collector.Flush(stats.Sample(), now)
			perfStats := perf.Stats()
			if *logStats {
				slog.Info("stats", "scene", window, "perf", perfStats)
			}
			if err := output.WriteTelemetry(window); err != nil {
				slog.Error("failed to write telemetry", "error", err)
			}
			if err := output.WritePerf(perfStats, stats.Frames, stats.Elapsed); err != nil {
				slog.Error("failed to write perf", "error", err)
			}
		},
	})

	slog.Info("shutting down", "frames", win.Frames(), "scene", host.Stats())
}
