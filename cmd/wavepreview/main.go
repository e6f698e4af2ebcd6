// Wave preview tool - tune the surface wave terms with sliders while the
// scene animates, then print the result as YAML for config.yaml.
//
// Usage: go run ./cmd/wavepreview [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/riverbed/config"
	"github.com/pthm-cable/riverbed/renderer"
	"github.com/pthm-cable/riverbed/scene"
	"github.com/pthm-cable/riverbed/systems"
)

const panelWidth = 320

// slider is one tunable wave value.
type slider struct {
	label    string
	value    *float64
	min, max float32
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	original := cfg.Surface
	original.Relief = append([]systems.Wave(nil), cfg.Surface.Relief...)
	original.Ripples = append([]systems.Wave(nil), cfg.Surface.Ripples...)
	original.Flow = append([]systems.Wave(nil), cfg.Surface.Flow...)

	screen := cfg.Screen
	screen.Title = "Wave Preview"
	screen.TargetFPS = 60
	win := renderer.OpenWindow(screen, renderer.WindowOptions{})
	defer win.Close()

	clock := scene.NewWallClock()
	var host *scene.Host
	mount := func() {
		if host != nil {
			host.Unmount()
		}
		host = scene.NewHost(scene.HostConfigFrom(cfg), scene.Env{
			Backend:   renderer.NewBackend(cfg),
			Scheduler: win.Queue(),
			Clock:     clock,
			Resize:    win.Queue(),
		})
		if err := host.Mount(win.Viewport(), cfg.Options); err != nil {
			fmt.Fprintf(os.Stderr, "Mount failed: %v\n", err)
		}
	}
	mount()
	defer func() { host.Unmount() }()

	dirty := false
	status := ""

	win.Run(renderer.RunOptions{
		Overlay: func() {
			panelX := float32(rl.GetScreenWidth() - panelWidth)
			rl.DrawRectangle(int32(panelX)-10, 0, panelWidth+10, int32(rl.GetScreenHeight()), rl.Fade(rl.Black, 0.6))

			y := float32(10)
			rl.DrawText("Surface Waves", int32(panelX), int32(y), 20, rl.RayWhite)
			y += 30

			for _, s := range sliders(&cfg.Surface) {
				if s.label == "" {
					y += 8
					continue
				}
				rl.DrawText(s.label, int32(panelX), int32(y), 12, rl.LightGray)
				y += 14
				v := gui.SliderBar(
					rl.Rectangle{X: panelX, Y: y, Width: panelWidth - 80, Height: 16},
					"", "",
					float32(*s.value), s.min, s.max,
				)
				rl.DrawText(fmt.Sprintf("%.3f", *s.value), int32(panelX+panelWidth-70), int32(y+2), 12, rl.RayWhite)
				if v != float32(*s.value) {
					*s.value = float64(v)
					dirty = true
				}
				y += 22
			}

			y += 6
			if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 140, Height: 28}, "Print YAML") {
				if err := printYAML(cfg.Surface); err != nil {
					status = err.Error()
				} else {
					status = "printed to stdout"
				}
			}
			if gui.Button(rl.Rectangle{X: panelX + 150, Y: y, Width: 140, Height: 28}, "Reset") {
				cfg.Surface = original
				cfg.Surface.Relief = append([]systems.Wave(nil), original.Relief...)
				cfg.Surface.Ripples = append([]systems.Wave(nil), original.Ripples...)
				cfg.Surface.Flow = append([]systems.Wave(nil), original.Flow...)
				dirty = true
			}
			y += 36

			if status != "" {
				rl.DrawText(status, int32(panelX), int32(y), 12, rl.Gray)
			}
			stats := host.Stats()
			rl.DrawText(fmt.Sprintf("%s  %.1fs  FPS %d", stats.State, stats.Elapsed, rl.GetFPS()),
				10, int32(rl.GetScreenHeight())-20, 14, rl.LightGray)
		},
		AfterFrame: func(uint64) {
			if !dirty {
				return
			}
			dirty = false
			if err := cfg.Refresh(); err != nil {
				status = err.Error()
				return
			}
			mount()
		},
	})
}

// sliders lists the tunable values of s. An empty label is a gap.
func sliders(s *config.SurfaceConfig) []slider {
	var out []slider
	for i := range s.Relief {
		out = append(out, slider{fmt.Sprintf("relief %d amp", i+1), &s.Relief[i].Amp, 0, 1})
	}
	out = append(out, slider{})
	for i := range s.Ripples {
		out = append(out,
			slider{fmt.Sprintf("ripple %d amp", i+1), &s.Ripples[i].Amp, 0, 0.5},
			slider{fmt.Sprintf("ripple %d rate", i+1), &s.Ripples[i].Rate, 0, 6},
		)
	}
	out = append(out, slider{})
	for i := range s.Flow {
		out = append(out, slider{fmt.Sprintf("flow %d amp", i+1), &s.Flow[i].Amp, 0, 1})
	}
	return out
}

// printYAML writes s as a config.yaml fragment.
func printYAML(s config.SurfaceConfig) error {
	data, err := yaml.Marshal(struct {
		Surface config.SurfaceConfig `yaml:"surface"`
	}{s})
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
