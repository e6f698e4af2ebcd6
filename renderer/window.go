package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/riverbed/config"
	"github.com/pthm-cable/riverbed/scene"
)

// Window owns the raylib window and its frame queue. The queue is the
// scene's Scheduler and ResizeNotifier.
type Window struct {
	queue  *scene.FrameQueue
	frames uint64
}

// WindowOptions adjusts window creation.
type WindowOptions struct {
	Hidden bool // for offscreen tools
}

// OpenWindow creates the window. raylib requires every later call to happen
// on this goroutine.
func OpenWindow(cfg config.ScreenConfig, opts WindowOptions) *Window {
	rl.SetTraceLogLevel(rl.LogWarning)

	var flags uint32 = rl.FlagMsaa4xHint
	if cfg.Resizable {
		flags |= rl.FlagWindowResizable
	}
	if opts.Hidden {
		flags |= rl.FlagWindowHidden
	}
	rl.SetConfigFlags(flags)

	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), cfg.Title)
	rl.SetTargetFPS(int32(cfg.TargetFPS))

	return &Window{queue: scene.NewFrameQueue(cfg.Width, cfg.Height)}
}

// Queue returns the frame queue scenes should schedule on.
func (w *Window) Queue() *scene.FrameQueue { return w.queue }

// Viewport returns the current drawable size.
func (w *Window) Viewport() scene.Viewport { return w.queue.Size() }

// Frames returns the number of frames presented.
func (w *Window) Frames() uint64 { return w.frames }

// RunOptions are per-frame hooks for Run.
type RunOptions struct {
	MaxFrames uint64 // stop after this many frames; 0 runs until closed
	// Overlay draws on top of the scene, e.g. a HUD.
	Overlay func()
	// AfterFrame runs after each presented frame, outside drawing.
	AfterFrame func(frame uint64)
}

// Run presents frames until the window is closed or MaxFrames is reached.
// Each frame clears to Background and runs the callbacks queued on the
// frame queue, so a scene with nothing scheduled shows a blank background.
func (w *Window) Run(opts RunOptions) {
	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			w.queue.SetSize(rl.GetScreenWidth(), rl.GetScreenHeight())
		}

		rl.BeginDrawing()
		rl.ClearBackground(Background)
		w.queue.RunFrame()
		if opts.Overlay != nil {
			opts.Overlay()
		}
		rl.EndDrawing()

		w.frames++
		if opts.AfterFrame != nil {
			opts.AfterFrame(w.frames)
		}
		if opts.MaxFrames > 0 && w.frames >= opts.MaxFrames {
			return
		}
	}
}

// CapturePNG runs one frame of the queue into an offscreen target of the
// window's size and writes it to path.
func (w *Window) CapturePNG(path string) error {
	vp := w.queue.Size()
	target := rl.LoadRenderTexture(int32(vp.Width), int32(vp.Height))
	defer rl.UnloadRenderTexture(target)

	rl.BeginDrawing()
	rl.BeginTextureMode(target)
	rl.ClearBackground(Background)
	ran := w.queue.RunFrame()
	rl.EndTextureMode()
	rl.EndDrawing()

	if ran == 0 {
		return fmt.Errorf("capturing %s: nothing was scheduled", path)
	}

	img := rl.LoadImageFromTexture(target.Texture)
	defer rl.UnloadImage(img)
	// Render targets are stored bottom-up.
	rl.ImageFlipVertical(img)
	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("exporting %s failed", path)
	}
	return nil
}

// Close destroys the window.
func (w *Window) Close() {
	rl.CloseWindow()
}
