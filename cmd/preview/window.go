package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/snow/config"
	"github.com/pthm-cable/snow/preview"
	"github.com/pthm-cable/snow/telemetry"
	"github.com/pthm-cable/snow/ui"
)

const panelWidth = 300

// controls mirrors the slider-editable part of the snow config.
type controls struct {
	FlakeCount float32
	Speed      float32
	Wind       float32
	Opacity    float32
	Cursor     bool
}

func controlsFrom(cfg *config.Config) controls {
	return controls{
		FlakeCount: float32(cfg.Snow.FlakeCount),
		Speed:      float32(cfg.Snow.Speed),
		Wind:       float32(cfg.Snow.Wind),
		Opacity:    float32(cfg.Snow.Opacity),
		Cursor:     cfg.Snow.CursorInteraction,
	}
}

// apply returns a copy of base carrying the control values.
func (c controls) apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	cfg.Snow.Areas = append([]string(nil), base.Snow.Areas...)
	cfg.Snow.FlakeCount = int(c.FlakeCount)
	cfg.Snow.Speed = float64(c.Speed)
	cfg.Snow.Wind = float64(c.Wind)
	cfg.Snow.Opacity = float64(c.Opacity)
	cfg.Snow.CursorInteraction = c.Cursor
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// runWindow opens the interactive preview. Any control change replaces the
// renderer with a fresh one, as a settings change does in the editor.
func runWindow(cfg *config.Config, opts preview.Options) error {
	w, h := int32(cfg.Preview.Width), int32(cfg.Preview.Height)
	rl.InitWindow(w+panelWidth, h, "Snow Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Preview.TargetFPS))

	theme := ui.NewRenderer()
	ctl := controlsFrom(cfg)
	sim := preview.NewSim(cfg, opts.Seed)
	sim.LogStats = opts.LogStats

	for !rl.WindowShouldClose() {
		if opts.Frames > 0 && sim.Tick() >= opts.Frames {
			break
		}

		mouse := rl.GetMousePosition()
		inside := rl.IsCursorOnScreen() && mouse.X < float32(w)
		sim.Pointer(float64(mouse.X), float64(mouse.Y), inside)

		dt := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		sim.Step(dt, func() { drawPage(sim) })
		sim.RecordFrame()

		next := drawControls(theme, w, ctl, sim)
		rl.EndDrawing()

		if rl.IsKeyPressed(rl.KeyS) && opts.SnapshotDir != "" {
			if path, err := sim.Snapshot(opts.SnapshotDir); err != nil {
				slog.Error("snapshot failed", "error", err)
			} else {
				slog.Info("snapshot written", "path", path)
			}
		}

		if next != ctl {
			updated, err := next.apply(cfg)
			if err != nil {
				slog.Warn("rejected control values", "error", err)
				continue
			}
			ctl = next
			sim = preview.NewSim(updated, opts.Seed)
			sim.LogStats = opts.LogStats
			slog.Debug("renderer rebuilt", "flake_count", updated.Snow.FlakeCount, "cursor", updated.Snow.CursorInteraction)
		}
	}
	return nil
}

// drawPage paints the editor chrome and every live canvas.
func drawPage(sim *preview.Sim) {
	for _, r := range sim.Regions() {
		b := r.Node.Rect()
		rl.DrawRectangle(int32(b.X), int32(b.Y), int32(b.W), int32(b.H), rl.NewColor(r.Fill[0], r.Fill[1], r.Fill[2], 255))
	}
	for _, c := range sim.Scene().Canvases() {
		box := c.Rect()
		for _, p := range c.Circles() {
			col := color.RGBA{R: p.RGB[0], G: p.RGB[1], B: p.RGB[2], A: uint8(clamp01(p.Alpha) * 255)}
			rl.DrawCircleV(rl.Vector2{X: float32(box.X + p.X), Y: float32(box.Y + p.Y)}, float32(p.R), col)
		}
	}
}

func drawControls(theme *ui.Renderer, x int32, ctl controls, sim *preview.Sim) controls {
	theme.DrawPanel(x, 0, panelWidth, int32(rl.GetScreenHeight()))
	pad := theme.Theme.Padding
	x += pad
	width := int32(panelWidth) - 2*pad
	y := theme.DrawSectionHeader(x, pad, "Snow")

	next := ctl
	next.FlakeCount, y = theme.Slider(x, y, "Flakes per 1920x1080", ctl.FlakeCount, 0, 500, "%.0f", width)
	next.FlakeCount = float32(int(next.FlakeCount))
	next.Speed, y = theme.Slider(x, y, "Speed", ctl.Speed, 0.1, 10, "%.1f", width)
	next.Wind, y = theme.Slider(x, y, "Wind", ctl.Wind, -5, 5, "%.1f", width)
	next.Opacity, y = theme.Slider(x, y, "Opacity", ctl.Opacity, 0, 1, "%.2f", width)
	next.Cursor, y = theme.Toggle(x, y, "Cursor interaction", ctl.Cursor)

	y = theme.DrawSectionHeader(x, y, "Stats")
	r := sim.Renderer()
	stats := sim.Perf()
	y = theme.DrawLabelValue(x, y, "Surfaces", fmt.Sprintf("%d", len(r.Surfaces())))
	y = theme.DrawLabelValue(x, y, "Flakes", fmt.Sprintf("%d", r.Particles()))
	y = theme.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", sim.Tick()))
	y = theme.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%.0f", stats.FPS))
	y = theme.DrawLabelValue(x, y, "Paint", fmt.Sprintf("%dus", stats.PhaseAvg[telemetry.PhasePaint].Microseconds()))
	theme.DrawBar(x, y, "Paint", float32(stats.PhasePct[telemetry.PhasePaint]/100), width)
	return next
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// renderPNG runs the page for opts.Frames ticks in a hidden window and exports
// the last frame.
func renderPNG(cfg *config.Config, opts preview.Options, path string) error {
	w, h := int32(cfg.Preview.Width), int32(cfg.Preview.Height)
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(w, h, "Snow Render")
	defer rl.CloseWindow()

	target := rl.LoadRenderTexture(w, h)
	defer rl.UnloadRenderTexture(target)

	sim := preview.NewSim(cfg, opts.Seed)
	dt := time.Second / time.Duration(cfg.Preview.TargetFPS)
	frames := opts.Frames
	if frames <= 0 {
		frames = 1
	}
	for sim.Tick() < frames-1 {
		sim.Step(dt, nil)
	}

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	sim.Step(dt, func() { drawPage(sim) })
	rl.EndTextureMode()

	// Render textures are stored bottom-up.
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)
	ok := rl.ExportImage(*img, path)
	rl.UnloadImage(img)
	if !ok {
		return fmt.Errorf("exporting %s failed", path)
	}
	slog.Info("frame rendered", "path", path, "width", w, "height", h, "tick", sim.Tick())
	return nil
}
